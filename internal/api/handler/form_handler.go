package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Ritesh-201/rbac-and-forms/internal/api/metrics"
)

const (
	maxUploadFileSize = 5 << 20
	registrationSteps = 4
)

var allowedUploadExt = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {},
	".pdf": {}, ".txt": {}, ".md": {}, ".doc": {}, ".docx": {},
}

// FormHandler validates form submissions. Accepted submissions are only
// acknowledged; nothing is stored.
type FormHandler struct{}

func NewFormHandler() *FormHandler {
	return &FormHandler{}
}

// Registration handles POST /v1/forms/registration.
//
// @Summary      Submit the registration form
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        body  body      registrationRequest  true  "All four steps"
// @Success      200   {object}  formResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/forms/registration [post]
func (h *FormHandler) Registration(c echo.Context) error {
	var req registrationRequest
	return h.validate(c, "registration", &req, formResponse{Form: "registration", Accepted: true})
}

// RegistrationStep handles POST /v1/forms/registration/steps/:step, checking
// a single step (1 personal, 2 address, 3 preferences, 4 review) before the
// client moves on.
//
// @Summary      Validate one registration step
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        step  path      int     true  "Step number (1-4)"
// @Success      200   {object}  formResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/forms/registration/steps/{step} [post]
func (h *FormHandler) RegistrationStep(c echo.Context) error {
	step, err := strconv.Atoi(c.Param("step"))
	if err != nil || step < 1 || step > registrationSteps {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("step must be between 1 and %d", registrationSteps))
	}

	var req any
	switch step {
	case 1:
		req = &personalInfoRequest{}
	case 2:
		req = &addressInfoRequest{}
	case 3:
		req = &preferencesRequest{}
	default:
		req = &reviewRequest{}
	}
	return h.validate(c, "registration_step", req, formResponse{Form: "registration", Accepted: true, Step: step})
}

// Support handles POST /v1/forms/support.
//
// @Summary      Submit a support request
// @Description  technical details are required for technical issues and billing details for billing issues.
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        body  body      supportRequest  true  "Support request"
// @Success      200   {object}  formResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/forms/support [post]
func (h *FormHandler) Support(c echo.Context) error {
	var req supportRequest
	return h.validate(c, "support", &req, formResponse{Form: "support", Accepted: true})
}

// Upload handles POST /v1/forms/upload.
//
// @Summary      Submit files
// @Tags         forms
// @Accept       multipart/form-data
// @Produce      json
// @Param        title        formData  string  true  "Title"
// @Param        description  formData  string  true  "Description (at least 10 characters)"
// @Param        category     formData  string  true  "image, document or other"
// @Param        files        formData  file    true  "One or more files, 5MB each"
// @Success      200          {object}  formResponse
// @Failure      400          {object}  errorResponse
// @Failure      422          {object}  errorResponse
// @Router       /v1/forms/upload [post]
func (h *FormHandler) Upload(c echo.Context) error {
	var req uploadRequest
	if err := c.Bind(&req); err != nil {
		return h.reject("upload", echo.NewHTTPError(http.StatusBadRequest, "invalid payload"))
	}
	if err := c.Validate(&req); err != nil {
		return h.reject("upload", echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error()))
	}

	form, err := c.MultipartForm()
	if err != nil {
		return h.reject("upload", echo.NewHTTPError(http.StatusBadRequest, "expected a multipart form"))
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		return h.reject("upload", echo.NewHTTPError(http.StatusUnprocessableEntity, "at least one file is required"))
	}

	files := make([]uploadedFile, 0, len(headers))
	var problems []string
	for _, fh := range headers {
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		if _, ok := allowedUploadExt[ext]; !ok {
			problems = append(problems, fmt.Sprintf("%s: file type %q is not accepted", fh.Filename, ext))
			continue
		}
		if fh.Size > maxUploadFileSize {
			problems = append(problems, fmt.Sprintf("%s: file is larger than 5MB", fh.Filename))
			continue
		}
		files = append(files, uploadedFile{
			Name:        fh.Filename,
			Size:        fh.Size,
			ContentType: fh.Header.Get(echo.HeaderContentType),
		})
	}
	if len(problems) > 0 {
		return h.reject("upload", echo.NewHTTPError(http.StatusUnprocessableEntity, strings.Join(problems, "; ")))
	}

	metrics.FormSubmissionsTotal.WithLabelValues("upload", "accepted").Inc()
	return c.JSON(http.StatusOK, formResponse{Form: "upload", Accepted: true, Files: files})
}

func (h *FormHandler) validate(c echo.Context, form string, req any, ok formResponse) error {
	if err := c.Bind(req); err != nil {
		return h.reject(form, echo.NewHTTPError(http.StatusBadRequest, "invalid payload"))
	}
	if err := c.Validate(req); err != nil {
		return h.reject(form, echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error()))
	}
	metrics.FormSubmissionsTotal.WithLabelValues(form, "accepted").Inc()
	return c.JSON(http.StatusOK, ok)
}

func (h *FormHandler) reject(form string, err error) error {
	metrics.FormSubmissionsTotal.WithLabelValues(form, "rejected").Inc()
	return err
}
