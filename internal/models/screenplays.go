package models

import (
	"time"
)

// Document is the raw screenplay payload handed to the extraction pipeline.
// It is input only and never mutated by the pipeline.
type Document struct {
	Data        []byte
	ContentType string
	Size        int64
}

// SceneTag classifies a scene by its dominant content.
type SceneTag string

const (
	TagAction       SceneTag = "Action"
	TagDialogue     SceneTag = "Dialogue"
	TagMontage      SceneTag = "Montage"
	TagFlashback    SceneTag = "Flashback"
	TagUnclassified SceneTag = "Unclassified"
)

// Scene is one segmented unit of a screenplay. VFXNeeds and
// ProductPlacementOpportunities are extension points filled in by other
// services, never by the segmentation pipeline.
type Scene struct {
	ID                            string   `json:"id" db:"id"`
	SceneNumber                   int      `json:"sceneNumber" db:"scene_number"`
	Location                      string   `json:"location" db:"location"`
	TimeOfDay                     string   `json:"timeOfDay" db:"time_of_day"`
	Description                   string   `json:"description" db:"description"`
	Characters                    []string `json:"characters"`
	Content                       string   `json:"content" db:"content"`
	PageStart                     int      `json:"pageStart" db:"page_start"`
	PageEnd                       int      `json:"pageEnd" db:"page_end"`
	Duration                      int      `json:"duration" db:"duration"`
	Tag                           SceneTag `json:"tag" db:"tag"`
	VFXNeeds                      []string `json:"vfxNeeds"`
	ProductPlacementOpportunities []string `json:"productPlacementOpportunities"`
}

type Screenplay struct {
	ID               string     `json:"id" db:"id"`
	Filename         string     `json:"filename" db:"filename"`
	FileSize         int64      `json:"file_size" db:"file_size"`
	ContentType      string     `json:"content_type" db:"content_type"`
	S3Key            string     `json:"s3_key" db:"s3_key"`
	ExtractedText    string     `json:"extracted_text,omitempty" db:"extracted_text"`
	ExtractionMethod string     `json:"extraction_method" db:"extraction_method"`
	CharCount        int        `json:"char_count" db:"char_count"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
	ProcessedAt      *time.Time `json:"processed_at,omitempty" db:"processed_at"`
}

type UploadRequest struct {
	File        []byte
	Filename    string
	ContentType string
}

type UploadResponse struct {
	ID               string    `json:"id"`
	Filename         string    `json:"filename"`
	FileSize         int64     `json:"file_size"`
	ContentType      string    `json:"content_type"`
	ExtractionMethod string    `json:"extraction_method"`
	CharCount        int       `json:"char_count"`
	CreatedAt        time.Time `json:"created_at"`
	Message          string    `json:"message"`
}

type ProcessResponse struct {
	ID          string    `json:"id"`
	SceneCount  int       `json:"scene_count"`
	Scenes      []Scene   `json:"scenes"`
	ProcessedAt time.Time `json:"processed_at"`
}
