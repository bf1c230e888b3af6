package models

import "time"

// RawUpload carries the bytes of a user-submitted image together with the
// metadata the upload layer knows about it. The buffer is consumed by the
// pipeline and must not be reused by the caller afterwards.
type RawUpload struct {
	Data          []byte
	Filename      string
	ContentLength int64
}

// Dimensions is a width/height pair in pixels.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ProcessingMetadata records which pipeline stages actually took effect.
// It is built incrementally while the pipeline runs and is immutable once
// the result is returned.
type ProcessingMetadata struct {
	Cropped           bool       `json:"cropped"`
	BackgroundRemoved bool       `json:"background_removed"`
	FaceDetected      bool       `json:"face_detected"`
	Enhanced          bool       `json:"enhanced"`
	OriginalSize      Dimensions `json:"original_size"`
	FinalSize         Dimensions `json:"final_size"`
}

// Result is the complete outcome of one avatar processing invocation.
type Result struct {
	ID                string             `json:"id"`
	OriginalFilename  string             `json:"original_filename"`
	OutputFilename    string             `json:"output_filename"`
	Metadata          ProcessingMetadata `json:"metadata"`
	OriginalBytes     int                `json:"original_bytes"`
	ProcessedBytes    int                `json:"processed_bytes"`
	ProcessingTimeSec float64            `json:"processing_time_sec"`
	Timestamp         time.Time          `json:"timestamp"`

	// PNG holds the final avatar encoded with its alpha channel preserved.
	PNG []byte `json:"-"`
}
