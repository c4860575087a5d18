package replicate

import "encoding/json"

// Model identity for the expression editor driven by this module.
const (
	ModelOwner   = "fofr"
	ModelName    = "expression-editor"
	ModelVersion = "bf913bc90e1c44ba288ba3942a538693b72e8cc7df576f3beebe56adc0a92b86"
)

// PredictionInput is the model input payload. Image is an opaque reference:
// an http(s) URL or a data URI; the client never inspects it.
type PredictionInput struct {
	Image       string  `json:"image"`
	PupilX      float64 `json:"pupil_x"`
	PupilY      float64 `json:"pupil_y"`
	RotateYaw   float64 `json:"rotate_yaw"`
	RotatePitch float64 `json:"rotate_pitch"`
}

// predictionRequest is the payload for POST /v1/predictions.
type predictionRequest struct {
	Version string          `json:"version"`
	Input   PredictionInput `json:"input"`
}

// Prediction statuses reported by the service.
const (
	StatusStarting   = "starting"
	StatusProcessing = "processing"
	StatusSucceeded  = "succeeded"
	StatusFailed     = "failed"
	StatusCanceled   = "canceled"
)

// predictionResponse mirrors the prediction resource. Output stays raw until
// the prediction succeeds: the service returns either a list of URLs or a
// single URL depending on the model.
type predictionResponse struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  string          `json:"error"`
}

func terminal(status string) bool {
	return status == StatusSucceeded || status == StatusFailed || status == StatusCanceled
}
