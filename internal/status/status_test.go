package status

import "testing"

func TestUpperLower(t *testing.T) {
	if upper('m') != 'M' {
		t.Errorf("upper('m') = %c, want M", upper('m'))
	}
	if upper('-') != '-' {
		t.Errorf("upper('-') = %c, want -", upper('-'))
	}
	if lower('M') != 'm' {
		t.Errorf("lower('M') = %c, want m", lower('M'))
	}
	if lower('-') != '-' {
		t.Errorf("lower('-') = %c, want -", lower('-'))
	}
}
