package syncengine

import "testing"

func TestIsObjectID(t *testing.T) {
	cases := []struct {
		rev  string
		want bool
	}{
		{"deadbeefdeadbeefdeadbeefdeadbeefdeadbeef", true},
		{"DEADBEEFDEADBEEFDEADBEEFDEADBEEFDEADBEEF", false},
		{"refs/heads/master", false},
		{"", false},
	}
	for _, c := range cases {
		if got := isObjectID(c.rev); got != c.want {
			t.Errorf("isObjectID(%q) = %v, want %v", c.rev, got, c.want)
		}
	}
}

func TestImportRepairAllowList(t *testing.T) {
	for _, name := range []string{
		"platform/external/iptables",
		"platform/external/libpcap",
		"platform/external/tcpdump",
		"platform/external/webkit",
		"platform/system/wlan/ti",
	} {
		if !importRepairAllowList[name] {
			t.Errorf("expected %q in import-repair allow-list", name)
		}
	}
	if importRepairAllowList["platform/frameworks/base"] {
		t.Error("did not expect an unrelated project in the allow-list")
	}
}
