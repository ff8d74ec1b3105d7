package screenplay

import (
	"fmt"
	"math"
	"strings"

	"github.com/njorogek/screenplay-ingest-api/internal/models"
)

// Classify enriches finalized scenes in place with a classification tag, a
// description, and an estimated duration. Apart from those three fields the
// pass is pure.
func Classify(scenes []models.Scene) []models.Scene {
	for i := range scenes {
		classifyScene(&scenes[i])
	}
	return scenes
}

func classifyScene(s *models.Scene) {
	content := strings.ToLower(s.Content)

	var suffix string
	switch {
	case containsAny(content, "fight", "action", "chase"):
		s.Tag = models.TagAction
		suffix = " - Action sequence"
	case strings.Contains(content, "dialogue") || len(s.Characters) > 0:
		s.Tag = models.TagDialogue
		suffix = dialogueSuffix(s.Characters)
	case strings.Contains(content, "montage"):
		s.Tag = models.TagMontage
		suffix = " - Montage sequence"
	case strings.Contains(content, "flashback"):
		s.Tag = models.TagFlashback
		suffix = " - Flashback sequence"
	default:
		s.Tag = models.TagUnclassified
	}

	desc := "Scene at " + s.Location
	if s.TimeOfDay != "" && s.TimeOfDay != TimeUnspecified {
		desc += " during " + s.TimeOfDay
	}
	s.Description = desc + suffix

	s.Duration = estimateDuration(s)
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func dialogueSuffix(characters []string) string {
	switch len(characters) {
	case 0:
		return " - Dialogue scene"
	case 1:
		return " - Dialogue featuring " + characters[0]
	case 2:
		return " - Dialogue featuring " + characters[0] + " and " + characters[1]
	default:
		return fmt.Sprintf(" - Dialogue featuring %s, %s and %d others",
			characters[0], characters[1], len(characters)-2)
	}
}

// estimateDuration approximates runtime in minutes. Each recorded character
// stands in for three lines of dialogue; dialogue plays faster than action.
func estimateDuration(s *models.Scene) int {
	nonBlank := 0
	for _, line := range strings.Split(s.Content, "\n") {
		if strings.TrimSpace(line) != "" {
			nonBlank++
		}
	}

	dialogueLines := len(s.Characters) * 3
	actionLines := nonBlank - dialogueLines

	minutes := int(math.Round(float64(dialogueLines)*0.5 + float64(actionLines)*1.2))
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
