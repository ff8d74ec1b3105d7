package screenplay

import (
	"strings"

	"github.com/njorogek/screenplay-ingest-api/internal/models"
)

// linesPerPage is the fixed page-estimate model: a screenplay page holds
// roughly 55 lines.
const linesPerPage = 55

// Segment scans screenplay text in a single forward pass and returns the
// ordered scene list. It is a pure function: identical input always yields
// an identical result, and headingless text yields an empty list.
//
// The scanner holds at most one open scene. A heading closes the current
// scene and opens the next; a FADE IN/FADE OUT cue may open only the very
// first scene of the document.
func Segment(text string) []models.Scene {
	lines := strings.Split(text, "\n")

	var scenes []models.Scene
	var current *sceneAccumulator
	openedAny := false

	for i, raw := range lines {
		line := strings.TrimSpace(raw)

		if line == "" {
			if current != nil {
				current.content.WriteByte('\n')
			}
			continue
		}

		if hm, ok := matchHeading(line); ok {
			if current != nil {
				scenes = append(scenes, current.finalize(i))
			}
			current = openScene(len(scenes)+1, hm, i)
			openedAny = true
			continue
		}

		if current == nil {
			if !openedAny && transitionPattern.MatchString(line) {
				current = openScene(1, headingMatch{location: line, timeOfDay: TimeUnspecified}, i)
				openedAny = true
			}
			continue
		}

		current.content.WriteString(line)
		current.content.WriteByte('\n')

		if name, ok := matchCharacterCue(line); ok {
			if acceptCharacter(name, current.scene.Characters) {
				current.scene.Characters = append(current.scene.Characters, name)
			}
		}
	}

	if current != nil {
		scenes = append(scenes, current.finalize(len(lines)-1))
	}
	return scenes
}

// sceneAccumulator is the in-progress scene being built during the scan.
type sceneAccumulator struct {
	scene   models.Scene
	content strings.Builder
}

func openScene(number int, hm headingMatch, lineIdx int) *sceneAccumulator {
	return &sceneAccumulator{
		scene: models.Scene{
			SceneNumber:                   number,
			Location:                      hm.location,
			TimeOfDay:                     hm.timeOfDay,
			Characters:                    []string{},
			PageStart:                     pageForLine(lineIdx),
			VFXNeeds:                      []string{},
			ProductPlacementOpportunities: []string{},
		},
	}
}

// finalize seals the scene at the given closing line index. Scenes are never
// mutated after this point except by the classifier's enrichment pass.
func (a *sceneAccumulator) finalize(lineIdx int) models.Scene {
	s := a.scene
	s.Content = strings.TrimRight(a.content.String(), "\n")
	s.PageEnd = pageForLine(lineIdx)
	return s
}

func pageForLine(idx int) int {
	if idx < 0 {
		idx = 0
	}
	return idx/linesPerPage + 1
}
