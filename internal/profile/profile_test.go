package profile

import "testing"

func TestDecodeMixedEntryShapes(t *testing.T) {
	raw := map[string]any{
		"technical_skills": []any{
			"Go",
			map[string]any{"text": "PostgreSQL"},
			"",
		},
		"work_experience": []any{
			map[string]any{"title": "Backend Engineer", "company": "Acme"},
		},
		"industries":      "fintech",
		"seniority_level": "Senior",
	}

	p, err := Decode(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	skills := Values(p.TechnicalSkills)
	if len(skills) != 2 || skills[0] != "Go" || skills[1] != "PostgreSQL" {
		t.Fatalf("unexpected skills: %v", skills)
	}

	if len(p.WorkExperience) != 1 || p.WorkExperience[0].Title != "Backend Engineer" {
		t.Fatalf("unexpected work experience: %+v", p.WorkExperience)
	}

	industries := Values(p.Industries)
	if len(industries) != 1 || industries[0] != "fintech" {
		t.Fatalf("unexpected industries: %v", industries)
	}

	if p.Seniority != SenioritySenior {
		t.Fatalf("expected senior, got %q", p.Seniority)
	}
}

func TestDecodeToleratesGarbageFields(t *testing.T) {
	raw := map[string]any{
		"technical_skills": []any{42, map[string]any{"unknown": true}, nil},
		"soft_skills":      12.5,
	}

	p, err := Decode(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Numbers stringify, unknown objects are dropped.
	skills := Values(p.TechnicalSkills)
	if len(skills) != 1 || skills[0] != "42" {
		t.Fatalf("unexpected skills: %v", skills)
	}
	if got := Values(p.SoftSkills); len(got) != 1 || got[0] != "12.5" {
		t.Fatalf("unexpected soft skills: %v", got)
	}
}

func TestDecodeRejectsNilDocument(t *testing.T) {
	if _, err := Decode(nil); err == nil {
		t.Fatalf("expected error for nil document")
	}
}

func TestParseSeniorityFallsBackToMid(t *testing.T) {
	cases := map[string]Seniority{
		"entry":     SeniorityEntry,
		" SENIOR ":  SenioritySenior,
		"lead":      SeniorityLead,
		"executive": SeniorityExecutive,
		"principal": SeniorityMid,
		"":          SeniorityMid,
	}

	for input, want := range cases {
		if got := ParseSeniority(input); got != want {
			t.Fatalf("ParseSeniority(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestHasSignal(t *testing.T) {
	empty := &Profile{
		SoftSkills: []Entry{PlainText("communication")},
		Education:  []Entry{PlainText("BSc")},
	}
	if empty.HasSignal() {
		t.Fatalf("soft skills and education alone should not count as signal")
	}

	withSkills := &Profile{TechnicalSkills: []Entry{PlainText("Go")}}
	if !withSkills.HasSignal() {
		t.Fatalf("expected signal from technical skills")
	}

	withExperience := &Profile{WorkExperience: []Entry{{Title: "Engineer"}}}
	if !withExperience.HasSignal() {
		t.Fatalf("expected signal from work experience")
	}

	var nilProfile *Profile
	if nilProfile.HasSignal() {
		t.Fatalf("nil profile should have no signal")
	}
}
