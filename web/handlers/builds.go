package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/bfgbuilds/buildmanager/buildmanager/database/models"
	"github.com/bfgbuilds/buildmanager/buildmanager/database/repositories"
	"github.com/bfgbuilds/buildmanager/buildmanager/schema"
	"github.com/bfgbuilds/buildmanager/web/utils"
)

// maxImageSize caps build screenshot uploads at 5MB.
const maxImageSize = 5 * 1024 * 1024

var allowedImageExts = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
}

// BuildsList handles GET /api/builds with an optional activityType filter.
func BuildsList(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		activityType := c.Query("activityType")

		var builds []*models.Build
		var err error
		if activityType != "" {
			builds, err = webApp.Builds.GetByActivityType(c.Context(), activityType)
		} else {
			builds, err = webApp.Builds.GetAll(c.Context())
		}
		if err != nil {
			slog.Error("Failed to list builds",
				slog.String("type", "web"),
				slog.Any("error", err))
			return utils.SendInternalServerError(c)
		}
		if builds == nil {
			builds = []*models.Build{}
		}
		return c.JSON(builds)
	}
}

// BuildsDetail handles GET /api/builds/:id.
func BuildsDetail(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return utils.SendBadRequest(c, "Invalid ID format")
		}

		build, err := webApp.Builds.GetByID(c.Context(), id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return utils.SendNotFound(c, "Build not found")
			}
			slog.Error("Failed to load build",
				slog.String("type", "web"),
				slog.Int64("id", id),
				slog.Any("error", err))
			return utils.SendInternalServerError(c)
		}
		return c.JSON(build)
	}
}

// BuildsCreate handles POST /api/builds. The payload is either a plain JSON
// body or a multipart form with a "data" JSON field and an optional "image"
// file.
func BuildsCreate(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input schema.BuildInput
		if err := parsePayload(c, &input); err != nil {
			return utils.SendBadRequest(c, "Invalid build payload")
		}

		imgURL, err := saveUploadedImage(c, webApp)
		if err != nil {
			return err
		}
		if imgURL != "" {
			input.ImgURL = imgURL
		}

		input.ApplyDefaults()
		if err := schema.ValidateBuild(&input); err != nil {
			var vErr *schema.ValidationError
			if errors.As(err, &vErr) {
				return utils.SendValidationErrors(c, "Validation failed", vErr.Details())
			}
			return utils.SendBadRequest(c, err.Error())
		}

		build, err := webApp.Builds.Create(c.Context(), &input)
		if err != nil {
			if errors.Is(err, repositories.ErrAliasTaken) {
				return utils.SendBadRequest(c, "Command alias already in use")
			}
			slog.Error("Failed to create build",
				slog.String("type", "web"),
				slog.String("alias", input.CommandAlias),
				slog.Any("error", err))
			return utils.SendInternalServerError(c)
		}

		return c.Status(fiber.StatusCreated).JSON(build)
	}
}

// BuildsUpdate handles PUT /api/builds/:id with a partial payload. A present
// field replaces the stored value wholesale.
func BuildsUpdate(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return utils.SendBadRequest(c, "Invalid ID format")
		}

		existing, err := webApp.Builds.GetByID(c.Context(), id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return utils.SendNotFound(c, "Build not found")
			}
			slog.Error("Failed to load build",
				slog.String("type", "web"),
				slog.Int64("id", id),
				slog.Any("error", err))
			return utils.SendInternalServerError(c)
		}

		var update schema.BuildUpdate
		if err := parsePayload(c, &update); err != nil {
			return utils.SendBadRequest(c, "Invalid build payload")
		}

		imgURL, err := saveUploadedImage(c, webApp)
		if err != nil {
			return err
		}
		if imgURL != "" {
			update.ImgURL = &imgURL
		}
		// If the update is rejected the record keeps its old image, so the
		// fresh upload is the file to throw away.
		discardUpload := func() {
			if imgURL == "" {
				return
			}
			if err := webApp.Images.Delete(c.Context(), imgURL); err != nil {
				slog.Error("Failed to discard rejected upload",
					slog.String("type", "web"),
					slog.String("img_url", imgURL),
					slog.Any("error", err))
			}
		}

		if err := schema.ValidateBuildUpdate(&update); err != nil {
			discardUpload()
			var vErr *schema.ValidationError
			if errors.As(err, &vErr) {
				return utils.SendValidationErrors(c, "Validation failed", vErr.Details())
			}
			return utils.SendBadRequest(c, err.Error())
		}

		build, err := webApp.Builds.Update(c.Context(), id, &update)
		if err != nil {
			discardUpload()
			switch {
			case errors.Is(err, repositories.ErrNotFound):
				return utils.SendNotFound(c, "Build not found")
			case errors.Is(err, repositories.ErrAliasTaken):
				return utils.SendBadRequest(c, "Command alias already in use")
			}
			slog.Error("Failed to update build",
				slog.String("type", "web"),
				slog.Int64("id", id),
				slog.Any("error", err))
			return utils.SendInternalServerError(c)
		}

		// The record now points at the new image, the replaced file can go.
		if imgURL != "" && existing.ImgURL != "" && existing.ImgURL != imgURL {
			if err := webApp.Images.Delete(c.Context(), existing.ImgURL); err != nil {
				slog.Error("Failed to delete replaced image",
					slog.String("type", "web"),
					slog.String("img_url", existing.ImgURL),
					slog.Any("error", err))
			}
		}

		return c.JSON(build)
	}
}

// BuildsDelete handles DELETE /api/builds/:id.
func BuildsDelete(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return utils.SendBadRequest(c, "Invalid ID format")
		}

		existing, err := webApp.Builds.GetByID(c.Context(), id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return utils.SendNotFound(c, "Build not found")
			}
			slog.Error("Failed to load build",
				slog.String("type", "web"),
				slog.Int64("id", id),
				slog.Any("error", err))
			return utils.SendInternalServerError(c)
		}

		if existing.ImgURL != "" {
			if err := webApp.Images.Delete(c.Context(), existing.ImgURL); err != nil {
				slog.Error("Failed to delete build image",
					slog.String("type", "web"),
					slog.String("img_url", existing.ImgURL),
					slog.Any("error", err))
			}
		}

		deleted, err := webApp.Builds.Delete(c.Context(), id)
		if err != nil {
			slog.Error("Failed to delete build",
				slog.String("type", "web"),
				slog.Int64("id", id),
				slog.Any("error", err))
			return utils.SendInternalServerError(c)
		}
		if !deleted {
			return utils.SendNotFound(c, "Build not found")
		}

		return c.JSON(fiber.Map{"message": "Build deleted successfully"})
	}
}

// parsePayload decodes the build payload from either a raw JSON body or the
// "data" field of a multipart form.
func parsePayload(c *fiber.Ctx, dst interface{}) error {
	body := c.Body()
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		body = []byte(c.FormValue("data"))
	}
	return json.Unmarshal(body, dst)
}

// saveUploadedImage stores the optional "image" file of a multipart request
// and returns its URL. A response is already written when the returned error
// is non-nil.
func saveUploadedImage(c *fiber.Ctx, webApp *WebApp) (string, error) {
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return "", nil
	}

	header, err := c.FormFile("image")
	if err != nil {
		// No file attached.
		return "", nil
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	contentType, allowed := allowedImageExts[ext]
	if !allowed {
		return "", utils.SendBadRequest(c, "Only image files are allowed")
	}
	if header.Size > maxImageSize {
		return "", utils.SendBadRequest(c, "Image exceeds the 5MB size limit")
	}

	file, err := header.Open()
	if err != nil {
		slog.Error("Failed to open uploaded image",
			slog.String("type", "web"),
			slog.Any("error", err))
		return "", utils.SendInternalServerError(c)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageSize))
	if err != nil {
		slog.Error("Failed to read uploaded image",
			slog.String("type", "web"),
			slog.Any("error", err))
		return "", utils.SendInternalServerError(c)
	}

	url, err := webApp.Images.Save(c.Context(), header.Filename, contentType, data)
	if err != nil {
		slog.Error("Failed to store uploaded image",
			slog.String("type", "web"),
			slog.Any("error", err))
		return "", utils.SendInternalServerError(c)
	}
	return url, nil
}
