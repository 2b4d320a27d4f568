package session

import "testing"

func TestIdentity_UserAgentRotates(t *testing.T) {
	id := NewIdentity(nil)

	first := id.UserAgent()
	if first == "" {
		t.Fatal("empty user agent")
	}
	second := id.UserAgent()
	if second == first {
		t.Error("user agent did not rotate")
	}
	for i := 0; i < len(defaultUserAgents)-2; i++ {
		id.UserAgent()
	}
	if got := id.UserAgent(); got != first {
		t.Errorf("rotation did not wrap: got %q, want %q", got, first)
	}
}

func TestIdentity_Proxy(t *testing.T) {
	if got := NewIdentity(nil).Proxy(); got != "" {
		t.Errorf("no proxies configured but Proxy() = %q", got)
	}

	id := NewIdentity([]string{"http://proxy1:8000", "http://proxy2:8000"})
	got := []string{id.Proxy(), id.Proxy(), id.Proxy()}
	want := []string{"http://proxy1:8000", "http://proxy2:8000", "http://proxy1:8000"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("proxy %d = %q, want %q", i, got[i], want[i])
		}
	}
}
