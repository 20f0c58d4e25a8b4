package judge

import "testing"

func TestVerdictRoundTrip(t *testing.T) {
	verdicts := []Verdict{
		CompileError, RuntimeError, WrongAnswer, TimeLimitExceeded,
		MemoryLimitExceeded, PartialScore, Accepted,
	}
	for _, v := range verdicts {
		parsed, err := ParseVerdict(v.String())
		if err != nil {
			t.Fatalf("ParseVerdict(%q): %v", v.String(), err)
		}
		if parsed != v {
			t.Errorf("ParseVerdict(%q) = %v, want %v", v.String(), parsed, v)
		}
	}
}

func TestParseVerdictCaseInsensitive(t *testing.T) {
	cases := []string{"accepted", "ACCEPTED", "AcCePtEd"}
	for _, s := range cases {
		v, err := ParseVerdict(s)
		if err != nil {
			t.Fatalf("ParseVerdict(%q): %v", s, err)
		}
		if v != Accepted {
			t.Errorf("ParseVerdict(%q) = %v, want Accepted", s, v)
		}
	}
}

func TestParseVerdictInvalid(t *testing.T) {
	_, err := ParseVerdict("Segfault")
	if err == nil {
		t.Fatal("expected an error for an unknown verdict string")
	}
	var ive *InvalidVerdictError
	if _, ok := err.(*InvalidVerdictError); !ok {
		t.Errorf("error type = %T, want %T", err, ive)
	}
}

func TestVerdictOrdering(t *testing.T) {
	ordered := []Verdict{
		CompileError, RuntimeError, WrongAnswer, TimeLimitExceeded,
		MemoryLimitExceeded, PartialScore, Accepted,
	}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1] >= ordered[i] {
			t.Fatalf("verdict rank not increasing at index %d: %v >= %v", i, ordered[i-1], ordered[i])
		}
	}
}

func TestMinVerdict(t *testing.T) {
	if got := minVerdict(Accepted, WrongAnswer); got != WrongAnswer {
		t.Errorf("minVerdict(Accepted, WrongAnswer) = %v, want WrongAnswer", got)
	}
	if got := minVerdict(Accepted, Accepted); got != Accepted {
		t.Errorf("minVerdict(Accepted, Accepted) = %v, want Accepted", got)
	}
	if got := minVerdict(CompileError, Accepted); got != CompileError {
		t.Errorf("minVerdict(CompileError, Accepted) = %v, want CompileError", got)
	}
}
