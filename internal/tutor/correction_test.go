package tutor

import "testing"

func TestExtractCorrection_Templates(t *testing.T) {
	cases := []struct {
		name    string
		text    string
		wantOK  bool
		wantO   string
		wantC   string
		wantExp string
	}{
		{
			name:    "noticed-you-said",
			text:    "I noticed you said 'I go to school yesterday'. A more natural way would be 'I went to school yesterday'. Use past tense for completed actions.",
			wantOK:  true,
			wantO:   "I go to school yesterday",
			wantC:   "I went to school yesterday",
			wantExp: "Use past tense for completed actions.",
		},
		{
			name:    "instead-of",
			text:    `Instead of "he don't know", try "he doesn't know". Third person singular takes doesn't.`,
			wantOK:  true,
			wantO:   "he don't know",
			wantC:   "he doesn't know",
			wantExp: "Third person singular takes doesn't.",
		},
		{
			name:    "you-said-but",
			text:    "You said 'more better', but it should be 'better'. Better is already comparative.",
			wantOK:  true,
			wantO:   "more better",
			wantC:   "better",
			wantExp: "Better is already comparative.",
		},
		{
			name:   "no-template",
			text:   "Great sentence! What did you do after school?",
			wantOK: false,
		},
		{
			name:    "explanation-stops-at-newline",
			text:    "I noticed you said 'a apple'. A more natural way would be 'an apple'. Use 'an' before vowels.\nWhat's your favourite fruit?",
			wantOK:  true,
			wantO:   "a apple",
			wantC:   "an apple",
			wantExp: "Use 'an' before vowels.",
		},
		{
			name:    "embedded-in-longer-reply",
			text:    "That sounds fun! I noticed you said 'we was there'. A more natural way would be 'we were there'. Use 'were' with plural subjects. Where did you go next?",
			wantOK:  true,
			wantO:   "we was there",
			wantC:   "we were there",
			wantExp: "Use 'were' with plural subjects. Where did you go next?",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractCorrection(tc.text)
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if !ok {
				if got != nil {
					t.Fatalf("no-match must return nil, got %+v", got)
				}
				return
			}
			if got.Original != tc.wantO || got.Corrected != tc.wantC || got.Explanation != tc.wantExp {
				t.Fatalf("got %+v", got)
			}
		})
	}
}

func TestExtractCorrection_FirstTemplateWins(t *testing.T) {
	// Text matching both template 1 and template 2; template 1 is first.
	text := "I noticed you said 'goed'. A more natural way would be 'went'. Irregular verb.\nInstead of 'runned', try 'ran'. Another irregular verb."
	got, ok := ExtractCorrection(text)
	if !ok || got.Original != "goed" {
		t.Fatalf("expected first template to win, got %+v ok=%v", got, ok)
	}
}

func TestGetMode_FallbackAndSet(t *testing.T) {
	all := Modes()
	if len(all) != 5 {
		t.Fatalf("expected 5 modes, got %d", len(all))
	}
	want := []string{"daily-life", "job-interview", "travel", "customer-service", "accent-practice"}
	for i, id := range want {
		if all[i].ID != id {
			t.Fatalf("mode[%d] = %q, want %q", i, all[i].ID, id)
		}
	}

	if got := GetMode("travel"); got.Name != "Travel" {
		t.Fatalf("GetMode(travel) = %+v", got)
	}
	if got := GetMode("unknown"); got.ID != "daily-life" {
		t.Fatalf("unknown mode must fall back to first, got %q", got.ID)
	}
	if ValidMode("nope") || !ValidMode("accent-practice") {
		t.Fatalf("ValidMode misbehaving")
	}
}
