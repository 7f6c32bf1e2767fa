package vfs

import "testing"

// runNormalize places region after prefix in a fresh buffer, normalizes the
// region and returns it, failing the test if the prefix bytes changed.
func runNormalize(t *testing.T, prefix, region string) string {
	t.Helper()
	buf := make([]byte, len(prefix)+len(region)+8)
	copy(buf, prefix)
	copy(buf[len(prefix):], region)
	end := normalize(buf, len(prefix), len(prefix)+len(region))
	if got := string(buf[:len(prefix)]); got != prefix {
		t.Fatalf("normalize touched the protected prefix: %q, want %q", got, prefix)
	}
	if end < len(prefix) {
		t.Fatalf("normalize returned end %d below prefix length %d", end, len(prefix))
	}
	return string(buf[len(prefix):end])
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		region   string
		expected string
	}{
		{"empty region", "", ""},
		{"already clean", "a/b", "a/b"},
		{"trailing separator kept", "a/b/", "a/b/"},
		{"separator run", "a//b", "a/b"},
		{"long separator run", "a////b///c", "a/b/c"},
		{"leading separator", "/a", "a"},
		{"leading separator run", "///a", "a"},
		{"only separators", "///", ""},
		{"leading dot-slash", "./a", "a"},
		{"interior dot", "a/./b", "a/b"},
		{"final dot takes its separator", "a/.", "a"},
		{"dot then trailing separator", "a/./", "a/"},
		{"lone dot", ".", ""},
		{"dotdot eats previous segment", "a/b/../c", "a/c"},
		{"final dotdot takes its separator", "a/b/..", "a"},
		{"dotdot then trailing separator", "a/b/../", "a/"},
		{"dotdot chain", "a/b/c/../..", "a"},
		{"dotdot to region start", "a/..", ""},
		{"dotdot past region start clamps", "../x", "x"},
		{"repeated clamp", "../../../../etc", "etc"},
		{"clamp interleaved with descent", "../a/../../b", "b"},
		{"lone dotdot", "..", ""},
		{"lone dotdot with separator", "../", ""},
		{"everything collapses", "a/../b/../", ""},
		{"hidden file kept", ".hidden", ".hidden"},
		{"hidden file in directory", "a/.hidden", "a/.hidden"},
		{"three dots kept", "a/.../b", "a/.../b"},
		{"dots inside names", "a.b/c..d", "a.b/c..d"},
		{"mixed", "x/./y/../z//", "x/z/"},
		{"dot after dotdot", "a/b/../.", "a"},
		{"dot-slash after dotdot", "a/b/.././", "a/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := runNormalize(t, "/root/", tt.region)
			if got != tt.expected {
				t.Errorf("normalize(%q) = %q, expected %q", tt.region, got, tt.expected)
			}
		})
	}
}

// Normalizing twice must be a no-op: resolved paths re-enter the engine as
// working-directory prefixes and get swept again by later resolutions.
func TestNormalizeIdempotent(t *testing.T) {
	regions := []string{
		"a/b/../c", "../../../../etc", "a//b///c/./d", ".hidden/../x",
		"x/./y/../z//", "a/b/", "", "...", "a/b/c/../..",
	}
	for _, region := range regions {
		t.Run(region, func(t *testing.T) {
			once := runNormalize(t, "/root/", region)
			twice := runNormalize(t, "/root/", once)
			if once != twice {
				t.Errorf("normalize(normalize(%q)): %q != %q", region, twice, once)
			}
		})
	}
}

// The prefix boundary must hold no matter how deep the prefix is.
func TestNormalizeProtectedPrefix(t *testing.T) {
	tests := []struct {
		prefix   string
		region   string
		expected string
	}{
		{"/", "../../x", "x"},
		{"/sdcard/", "../etc/passwd", "etc/passwd"},
		{"/a/b/c/", "../../../../..", ""},
		{"/deep/nested/prefix/", "ok/../fine", "fine"},
	}
	for _, tt := range tests {
		t.Run(tt.prefix+tt.region, func(t *testing.T) {
			got := runNormalize(t, tt.prefix, tt.region)
			if got != tt.expected {
				t.Errorf("normalize(%q after %q) = %q, expected %q",
					tt.region, tt.prefix, got, tt.expected)
			}
		})
	}
}
