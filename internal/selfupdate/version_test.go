package selfupdate

import "testing"

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in   string
		ok   bool
		core [3]int
		dev  bool
	}{
		{"0.4.0", true, [3]int{0, 4, 0}, false},
		{"v10.20.30", true, [3]int{10, 20, 30}, false},
		{"1.0.0-rc.1", true, [3]int{1, 0, 0}, false},
		{"1.2.3+build.7", true, [3]int{1, 2, 3}, false},
		{"v0.3.1-4-gabc123-dev", true, [3]int{0, 3, 1}, true},
		{"v0.3.1-dev", true, [3]int{0, 3, 1}, true},
		{"dev", false, [3]int{}, false},
		{"vabc123-dev", false, [3]int{}, false},
		{"1.2", false, [3]int{}, false},
		{"1.2.x", false, [3]int{}, false},
		{"1.2.3-", false, [3]int{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v, ok := parseVersion(tt.in)
			if ok != tt.ok {
				t.Fatalf("parseVersion(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if ok && (v.core != tt.core || v.dev != tt.dev) {
				t.Fatalf("parseVersion(%q) = %+v", tt.in, v)
			}
		})
	}
}

func TestVersionOrder(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"0.4.0", "0.3.0", true},
		{"0.4.0", "0.4.0", false},
		{"0.3.0", "0.4.0", false},
		{"1.0.0", "0.9.9", true},
		{"1.2.4", "1.2.3", true},
		{"2.0.0", "1.99.99", true},
		{"1.0.0", "1.0.0-rc.1", true},
		{"1.0.0-rc.1", "1.0.0", false},
		{"1.0.0-rc.2", "1.0.0-rc.1", true},
		{"1.0.0-rc.10", "1.0.0-rc.9", true},
		{"1.0.0-beta", "1.0.0-alpha", true},
		{"1.0.0-alpha.1", "1.0.0-alpha", true},
		{"1.0.0-alpha.beta", "1.0.0-alpha.1", true},
		{"0.3.1", "v0.3.1-4-gabc123-dev", false},
		{"0.3.2", "v0.3.1-4-gabc123-dev", true},
		{"v0.3.1-4-gabc123-dev", "0.3.1-rc.1", true},
	}
	for _, tt := range tests {
		t.Run(tt.a+">"+tt.b, func(t *testing.T) {
			a, okA := parseVersion(tt.a)
			b, okB := parseVersion(tt.b)
			if !okA || !okB {
				t.Fatalf("unparseable pair %q, %q", tt.a, tt.b)
			}
			if got := a.after(b); got != tt.want {
				t.Fatalf("%q after %q = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
