package display

// Challenge renders a verification puzzle and the command that answers it.
func (p *Printer) Challenge(instructions, text, code, action string) {
	p.Printf("\n%s\n", p.style("🔒 Verification Required", ansiYellow, ansiBold))
	p.Println(instructions)
	p.Printf("Challenge: %s\n\n", p.style(text, ansiCyan, ansiBold))
	p.Printf("To complete your %s, run:\n", action)
	p.Printf("  moltbook verify --code %q --solution \"<YOUR_ANSWER>\"\n", code)
}
