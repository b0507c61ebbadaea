package series

import "testing"

func TestConfigFingerprint(t *testing.T) {
	base := Default().Fingerprint()
	if base != Default().Fingerprint() {
		t.Fatal("Expected equal configs to share a fingerprint")
	}

	relabeled := Default()
	relabeled.Plots.Color.Title = "Another title"
	if relabeled.Fingerprint() != base {
		t.Error("Plot labels should not change the fingerprint")
	}

	a, b := Default(), Default()
	a.ExcludeVideoIDs = []string{"x", "y"}
	b.ExcludeVideoIDs = []string{"y", "x", "x"}
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("Exclusion order and repeats should not change the fingerprint")
	}

	changes := map[string]func(c *Config){
		"exclusions": func(c *Config) { c.ExcludeVideoIDs = []string{"v4"} },
		"pattern":    func(c *Config) { c.TitlePattern = `^Ep ([0-9]+)` },
		"quality":    func(c *Config) { c.ThumbnailQuality = "high" },
		"channel":    func(c *Config) { c.ColorChannel = "red" },
		"handle":     func(c *Config) { c.Handle = "someone" },
	}
	for name, change := range changes {
		t.Run(name, func(t *testing.T) {
			c := Default()
			change(c)
			if c.Fingerprint() == base {
				t.Errorf("Changing %s should change the fingerprint", name)
			}
		})
	}
}
