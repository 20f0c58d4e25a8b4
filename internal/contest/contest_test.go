package contest

import "testing"

func TestDifficultyRoundTrip(t *testing.T) {
	for _, d := range []Difficulty{Easy, Medium, Hard} {
		parsed, err := ParseDifficulty(d.String())
		if err != nil {
			t.Fatalf("ParseDifficulty(%q): %v", d.String(), err)
		}
		if parsed != d {
			t.Errorf("ParseDifficulty(%q) = %v, want %v", d.String(), parsed, d)
		}
	}
}

func TestParseDifficultyCaseInsensitive(t *testing.T) {
	v, err := ParseDifficulty("MEDIUM")
	if err != nil {
		t.Fatalf("ParseDifficulty: %v", err)
	}
	if v != Medium {
		t.Errorf("ParseDifficulty(%q) = %v, want Medium", "MEDIUM", v)
	}
}

func TestParseDifficultyInvalid(t *testing.T) {
	if _, err := ParseDifficulty("extreme"); err == nil {
		t.Fatal("expected an error for an unknown difficulty")
	}
}

func TestContestTaskLookup(t *testing.T) {
	c := &Contest{Tasks: []Task{{Name: "a"}, {Name: "b"}}}

	task, ok := c.Task("b")
	if !ok || task.Name != "b" {
		t.Errorf("Task(%q) = %+v, %v, want task b, true", "b", task, ok)
	}

	if _, ok := c.Task("missing"); ok {
		t.Error("Task(missing) found a task that does not exist")
	}
}

func TestLanguageAllowedEmptyAllowlistPermitsEverything(t *testing.T) {
	c := &Contest{}
	if !c.LanguageAllowed("anything") {
		t.Error("empty allowlist should permit every language")
	}
}

func TestLanguageAllowedRestrictsToList(t *testing.T) {
	c := &Contest{Languages: []string{"python", "go"}}
	if !c.LanguageAllowed("go") {
		t.Error("go should be allowed")
	}
	if c.LanguageAllowed("rust") {
		t.Error("rust should not be allowed")
	}
}
