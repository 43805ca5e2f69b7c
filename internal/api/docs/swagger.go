package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// RegisterFaceResponse represents the response for a successful registration
type RegisterFaceResponse struct {
	Success         bool      `json:"success" example:"true"`
	Name            string    `json:"name" example:"alice"`
	Model           string    `json:"model_used" example:"magface"`
	Message         string    `json:"message,omitempty" example:"registered"`
	TotalRegistered int       `json:"total_registered" example:"5"`
	FailedCount     int       `json:"failed_count" example:"0"`
	Qualities       []float64 `json:"qualities,omitempty"`
}

// RecognizeFaceResponse represents the response for recognition
type RecognizeFaceResponse struct {
	Name       string           `json:"name" example:"alice"`
	Confidence float64          `json:"confidence" example:"0.92"`
	Matches    []map[string]any `json:"matches,omitempty"`
}

// DetectFaceResponse represents the response for the diagnostic detect endpoint
type DetectFaceResponse struct {
	Box           DetectedBox `json:"box"`
	CroppedBase64 string      `json:"cropped_image,omitempty"`
	SavedPath     string      `json:"saved_path,omitempty"`
}

// DetectedBox is a face bounding box in raster coordinates
type DetectedBox struct {
	X          int     `json:"x" example:"120"`
	Y          int     `json:"y" example:"80"`
	Width      int     `json:"width" example:"240"`
	Height     int     `json:"height" example:"240"`
	Confidence float64 `json:"confidence" example:"1"`
}

// DatabaseInfoResponse represents backend face database statistics
type DatabaseInfoResponse struct {
	Model        string `json:"model" example:"magface"`
	TotalPersons int    `json:"total_persons" example:"42"`
	TotalFaces   int    `json:"total_faces" example:"210"`
}

// DatabaseSaveResponse represents the response for a database save
type DatabaseSaveResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message,omitempty" example:"database saved"`
}

// DeletePersonResponse represents the response for a person delete
type DeletePersonResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message,omitempty" example:"deleted"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"VALIDATION_FAILED"`
	Message string `json:"message" example:"Request validation failed"`
}

func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "Facegate API",
		Version:     "v1.0.0",
		Description: "Employee face capture and registration gateway for the appearance evaluation platform",
		Host:        "localhost:3000",
		Path:        "/v1",
	})

	modelParam := parameter.StrParam("model", parameter.Query,
		parameter.WithDescription("Recognition model: magface or qmagface"))

	endpoints := []*endpoint.EndPoint{
		// POST /v1/faces/register
		endpoint.New(
			endpoint.POST,
			"/faces/register",
			endpoint.WithTags("Faces"),
			endpoint.WithSummary("Register a person from five angle images"),
			endpoint.WithDescription("Registers a person from multipart parts front, left, right, up and down plus a name field. Every image must contain a detectable face."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				modelParam,
				parameter.IntParam("min_quality", parameter.Query,
					parameter.WithDescription("Minimum face quality, qmagface only")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(RegisterFaceResponse{}, "201", "Person registered"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Request validation failed"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "NO_FACE_DETECTED", Message: "No face detected in the image"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "UPSTREAM_ERROR", Message: "Face recognition backend request failed"}, "502", "Bad Gateway"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// POST /v1/faces/recognize
		endpoint.New(
			endpoint.POST,
			"/faces/recognize",
			endpoint.WithTags("Faces"),
			endpoint.WithSummary("Identify a person from a single image"),
			endpoint.WithDescription("Detects and crops the best face in the image part, then asks the recognition backend who it is."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				modelParam,
				parameter.StrParam("threshold", parameter.Query,
					parameter.WithDescription("Match threshold, default 0.5")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(RecognizeFaceResponse{}, "200", "Recognition result"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "NO_FACE_DETECTED", Message: "No face detected in the image"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "UPSTREAM_ERROR", Message: "Face recognition backend request failed"}, "502", "Bad Gateway"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// POST /v1/faces/detect
		endpoint.New(
			endpoint.POST,
			"/faces/detect",
			endpoint.WithTags("Faces"),
			endpoint.WithSummary("Detect the best face in an image"),
			endpoint.WithDescription("Diagnostic endpoint reporting the selected bounding box. With include_crop=true the cropped face is returned base64-encoded and archived on disk."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("include_crop", parameter.Query,
					parameter.WithDescription("Return and archive the cropped face")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(DetectFaceResponse{}, "200", "Detection result"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "NO_FACE_DETECTED", Message: "No face detected in the image"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// GET /v1/database/info
		endpoint.New(
			endpoint.GET,
			"/database/info",
			endpoint.WithTags("Database"),
			endpoint.WithSummary("Face database statistics"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(modelParam),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(DatabaseInfoResponse{}, "200", "Database statistics"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "UPSTREAM_ERROR", Message: "Face recognition backend request failed"}, "502", "Bad Gateway"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// POST /v1/database/save
		endpoint.New(
			endpoint.POST,
			"/database/save",
			endpoint.WithTags("Database"),
			endpoint.WithSummary("Persist the backend face database"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("path", parameter.Query,
					parameter.WithDescription("Optional target path on the backend host")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(DatabaseSaveResponse{}, "200", "Database saved"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "UPSTREAM_ERROR", Message: "Face recognition backend request failed"}, "502", "Bad Gateway"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// DELETE /v1/database/{name}
		endpoint.New(
			endpoint.DELETE,
			"/database/{name}",
			endpoint.WithTags("Database"),
			endpoint.WithSummary("Remove a person from the face database"),
			endpoint.WithDescription("Removes all stored faces for the person. An unknown name is reported with success=false rather than an error."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("name", parameter.Path, parameter.WithDescription("Registered person name")),
				modelParam,
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(DeletePersonResponse{}, "200", "Delete result"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "UPSTREAM_ERROR", Message: "Face recognition backend request failed"}, "502", "Bad Gateway"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
