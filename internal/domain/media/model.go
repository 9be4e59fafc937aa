package media

import (
	"encoding/json"
	"time"
)

// MediaRecord is the persisted metadata for one uploaded asset. The record id
// doubles as the document key; FileName is the object-store key holding the
// binary payload.
type MediaRecord struct {
	ID             string     `json:"id" bson:"_id"`
	Title          string     `json:"title" bson:"title"`
	Description    string     `json:"description" bson:"description"`
	FileName       string     `json:"fileName" bson:"fileName"`
	FileURL        string     `json:"fileUrl" bson:"fileUrl"`
	FileType       string     `json:"fileType" bson:"fileType"`
	FileSize       int64      `json:"fileSize" bson:"fileSize"`
	Tags           []string   `json:"tags" bson:"tags"`
	Metadata       Metadata   `json:"metadata" bson:"metadata"`
	UploadedAt     time.Time  `json:"uploadedAt" bson:"uploadedAt"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
	Analysis       *Analysis  `json:"analysis,omitempty" bson:"analysis,omitempty"`
	LastAnalyzedAt *time.Time `json:"lastAnalyzedDate,omitempty" bson:"lastAnalyzedDate,omitempty"`
}

// Metadata carries the drone-specific classification fields.
type Metadata struct {
	GPS        GPS    `json:"gps" bson:"gps"`
	DroneModel string `json:"droneModel,omitempty" bson:"droneModel,omitempty"`
	MissionID  string `json:"missionId,omitempty" bson:"missionId,omitempty"`
}

// GPS holds the capture coordinates. Pointers distinguish "not recorded"
// from a legitimate zero coordinate.
type GPS struct {
	Latitude  *float64 `json:"latitude" bson:"latitude,omitempty"`
	Longitude *float64 `json:"longitude" bson:"longitude,omitempty"`
	Altitude  *float64 `json:"altitude" bson:"altitude,omitempty"`
}

// Analysis is the vision-adapter result merged into a record on demand.
// Raw retains the full provider payload.
type Analysis struct {
	Description    string           `json:"description" bson:"description"`
	Confidence     float64          `json:"confidence" bson:"confidence"`
	Tags           []string         `json:"tags" bson:"tags"`
	Categories     []string         `json:"categories,omitempty" bson:"categories,omitempty"`
	Objects        []DetectedObject `json:"objects,omitempty" bson:"objects,omitempty"`
	DominantColors []string         `json:"dominantColors,omitempty" bson:"dominantColors,omitempty"`
	Raw            json.RawMessage  `json:"raw,omitempty" bson:"raw,omitempty"`
}

// DetectedObject is one object located by the vision adapter.
type DetectedObject struct {
	Object     string      `json:"object" bson:"object"`
	Confidence float64     `json:"confidence" bson:"confidence"`
	Rectangle  BoundingBox `json:"rectangle" bson:"rectangle"`
}

// BoundingBox is the pixel rectangle around a detected object.
type BoundingBox struct {
	X      int `json:"x" bson:"x"`
	Y      int `json:"y" bson:"y"`
	Width  int `json:"w" bson:"w"`
	Height int `json:"h" bson:"h"`
}

// UploadInput is the parsed multipart upload form.
type UploadInput struct {
	Data        []byte
	FileName    string
	ContentType string
	Title       string
	Description string
	Tags        []string
	Latitude    string
	Longitude   string
	Altitude    string
	DroneModel  string
	MissionID   string
}

// UpdateInput carries a partial update. Empty fields retain the stored
// value; nothing here can change the record id.
type UpdateInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Latitude    string `json:"latitude"`
	Longitude   string `json:"longitude"`
	Altitude    string `json:"altitude"`
	DroneModel  string `json:"droneModel"`
	MissionID   string `json:"missionId"`
}
