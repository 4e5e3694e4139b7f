package domain

import (
	"encoding/json"
	"testing"
)

func TestCreatePostRequestOmitsEmptyOptionalFields(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(CreatePostRequest{SubmoltName: "general", Title: "Hi"})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"submolt_name":"general","title":"Hi"}`
	if got := string(data); got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestCreateSubmoltRequestSendsNullDescription(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(CreateSubmoltRequest{Name: "rust", DisplayName: "Rust"})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"name":"rust","display_name":"Rust","description":null,"allow_crypto":false}`
	if got := string(data); got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestDmRequestBodyKeys(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body DmRequestBody
		want string
	}{
		{"by_name", DmRequestBody{To: "Bot", Message: "hi"}, `{"to":"Bot","message":"hi"}`},
		{"by_owner", DmRequestBody{ToOwner: "@human", Message: "hi"}, `{"to_owner":"@human","message":"hi"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			data, err := json.Marshal(tc.body)
			if err != nil {
				t.Fatal(err)
			}
			if got := string(data); got != tc.want {
				t.Fatalf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestVerifyRequestKeys(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(VerifyRequest{VerificationCode: "X1", Answer: "42"})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"verification_code":"X1","answer":"42"}`
	if got := string(data); got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}
