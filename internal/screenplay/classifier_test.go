package screenplay

import (
	"strings"
	"testing"

	"github.com/njorogek/screenplay-ingest-api/internal/models"
)

func TestClassifyTagPriority(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		characters []string
		want       models.SceneTag
	}{
		{
			name:       "action wins even with characters",
			content:    "The chase tears through the market.\nJOHN\nGo go go!",
			characters: []string{"JOHN"},
			want:       models.TagAction,
		},
		{
			name:    "fight keyword",
			content: "A brutal fight breaks out.",
			want:    models.TagAction,
		},
		{
			name:       "characters imply dialogue",
			content:    "JOHN\nWe should talk.",
			characters: []string{"JOHN"},
			want:       models.TagDialogue,
		},
		{
			name:    "dialogue keyword without characters",
			content: "Overlapping dialogue fills the room.",
			want:    models.TagDialogue,
		},
		{
			name:    "montage",
			content: "MONTAGE of the seasons changing.",
			want:    models.TagMontage,
		},
		{
			name:    "flashback",
			content: "FLASHBACK to the accident.",
			want:    models.TagFlashback,
		},
		{
			name:    "nothing matches",
			content: "Rain on the window.",
			want:    models.TagUnclassified,
		},
		{
			name:       "dialogue beats montage when characters present",
			content:    "MONTAGE of postcards.\nMARY\nRemember this?",
			characters: []string{"MARY"},
			want:       models.TagDialogue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scenes := Classify([]models.Scene{{
				Location:   "ROOM",
				TimeOfDay:  "DAY",
				Content:    tt.content,
				Characters: tt.characters,
			}})
			if scenes[0].Tag != tt.want {
				t.Errorf("Tag = %q, want %q", scenes[0].Tag, tt.want)
			}
		})
	}
}

func TestClassifyDescription(t *testing.T) {
	tests := []struct {
		name  string
		scene models.Scene
		want  string
	}{
		{
			name:  "location and time",
			scene: models.Scene{Location: "KITCHEN", TimeOfDay: "DAY", Content: "Rain."},
			want:  "Scene at KITCHEN during DAY",
		},
		{
			name:  "unspecified time omitted",
			scene: models.Scene{Location: "HALLWAY", TimeOfDay: TimeUnspecified, Content: "Rain."},
			want:  "Scene at HALLWAY",
		},
		{
			name:  "action suffix",
			scene: models.Scene{Location: "STREET", TimeOfDay: "NIGHT", Content: "The chase is on."},
			want:  "Scene at STREET during NIGHT - Action sequence",
		},
		{
			name: "dialogue with one character",
			scene: models.Scene{
				Location: "BAR", TimeOfDay: "NIGHT",
				Content: "JOHN\nAnother round.", Characters: []string{"JOHN"},
			},
			want: "Scene at BAR during NIGHT - Dialogue featuring JOHN",
		},
		{
			name: "dialogue with two characters",
			scene: models.Scene{
				Location: "BAR", TimeOfDay: "NIGHT",
				Content: "Words.", Characters: []string{"JOHN", "MARY"},
			},
			want: "Scene at BAR during NIGHT - Dialogue featuring JOHN and MARY",
		},
		{
			name: "dialogue with a crowd",
			scene: models.Scene{
				Location: "COURTROOM", TimeOfDay: "DAY",
				Content: "Words.", Characters: []string{"JOHN", "MARY", "JUDGE", "BAILIFF"},
			},
			want: "Scene at COURTROOM during DAY - Dialogue featuring JOHN, MARY and 2 others",
		},
		{
			name:  "dialogue keyword no characters",
			scene: models.Scene{Location: "CAFE", TimeOfDay: "DAY", Content: "Muffled dialogue."},
			want:  "Scene at CAFE during DAY - Dialogue scene",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scenes := Classify([]models.Scene{tt.scene})
			if scenes[0].Description != tt.want {
				t.Errorf("Description = %q, want %q", scenes[0].Description, tt.want)
			}
		})
	}
}

func TestEstimateDuration(t *testing.T) {
	// 10 non-blank lines, 2 characters: 6 dialogue lines at 0.5 plus
	// 4 action lines at 1.2 rounds to 8.
	content := strings.TrimSpace(strings.Repeat("A line of something.\n", 10))
	scenes := Classify([]models.Scene{{
		Location:   "ROOM",
		TimeOfDay:  "DAY",
		Content:    content,
		Characters: []string{"JOHN", "MARY"},
	}})
	if scenes[0].Duration != 8 {
		t.Errorf("Duration = %d, want 8", scenes[0].Duration)
	}
}

func TestEstimateDurationFloor(t *testing.T) {
	scenes := Classify([]models.Scene{{Location: "ROOM", TimeOfDay: "DAY", Content: ""}})
	if scenes[0].Duration != 1 {
		t.Errorf("Duration = %d, want floor of 1", scenes[0].Duration)
	}

	// Heavy dialogue can push the raw estimate negative; it still clamps.
	scenes = Classify([]models.Scene{{
		Location: "ROOM", TimeOfDay: "DAY",
		Content:    "JOHN\nHi.",
		Characters: []string{"JOHN", "MARY", "SUE"},
	}})
	if scenes[0].Duration < 1 {
		t.Errorf("Duration = %d, want at least 1", scenes[0].Duration)
	}
}
