package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/codekeep/codekeep/core/barcode"
	"github.com/codekeep/codekeep/core/logger"
	"github.com/codekeep/codekeep/core/record"
	"github.com/codekeep/codekeep/core/response"
)

// maxImportSize bounds import request bodies.
const maxImportSize = 10 << 20 // 10 MB

type recordRequest struct {
	Name   string         `json:"name"`
	Value  string         `json:"value"`
	Format barcode.Format `json:"format"`
}

func (a *App) render(w http.ResponseWriter, r *http.Request, resp response.Response) {
	if err := resp(w, r); err != nil {
		a.logger.ErrorContext(r.Context(), "render response failed",
			slog.String("path", r.URL.Path),
			logger.Error(err))
	}
}

// storeErrorResponse maps store errors onto API status codes.
func storeErrorResponse(err error) response.Response {
	switch {
	case errors.Is(err, record.ErrNotFound):
		return response.JSONError(http.StatusNotFound, "record not found")
	case errors.Is(err, record.ErrDuplicateID):
		return response.JSONError(http.StatusConflict, "record already exists")
	case errors.Is(err, record.ErrEmptyValue),
		errors.Is(err, record.ErrMissingID),
		errors.Is(err, record.ErrUnknownFormat):
		return response.JSONError(http.StatusBadRequest, err.Error())
	default:
		return response.JSONError(http.StatusInternalServerError, "internal error")
	}
}

func recordID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(mux.Vars(r)["id"])
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	if a.health != nil {
		if err := a.health(r.Context()); err != nil {
			a.logger.WarnContext(r.Context(), "healthcheck failed", logger.Error(err))
			a.render(w, r, response.JSONError(http.StatusServiceUnavailable, "unhealthy"))
			return
		}
	}
	a.render(w, r, response.JSON(map[string]string{"status": "ok"}))
}

func (a *App) handleListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := a.store.List(r.Context())
	if err != nil {
		a.logger.ErrorContext(r.Context(), "list records failed", logger.Error(err))
		a.render(w, r, storeErrorResponse(err))
		return
	}
	a.render(w, r, response.JSON(records))
}

func (a *App) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.render(w, r, response.JSONError(http.StatusBadRequest, "invalid json body"))
		return
	}

	rec, err := record.New(req.Name, req.Value, req.Format)
	if err != nil {
		a.render(w, r, storeErrorResponse(err))
		return
	}
	if err := a.store.Create(r.Context(), rec); err != nil {
		a.logger.ErrorContext(r.Context(), "create record failed", logger.Error(err))
		a.render(w, r, storeErrorResponse(err))
		return
	}

	a.logger.InfoContext(r.Context(), "record created", logger.RecordID(rec.ID.String()))
	a.render(w, r, response.JSONWithStatus(rec, http.StatusCreated))
}

func (a *App) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		a.render(w, r, response.JSONError(http.StatusBadRequest, "invalid record id"))
		return
	}

	rec, err := a.store.Get(r.Context(), id)
	if err != nil {
		a.render(w, r, storeErrorResponse(err))
		return
	}
	a.render(w, r, response.JSON(rec))
}

func (a *App) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		a.render(w, r, response.JSONError(http.StatusBadRequest, "invalid record id"))
		return
	}

	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.render(w, r, response.JSONError(http.StatusBadRequest, "invalid json body"))
		return
	}

	rec, err := a.store.Get(r.Context(), id)
	if err != nil {
		a.render(w, r, storeErrorResponse(err))
		return
	}

	rec.Name = req.Name
	rec.Value = req.Value
	rec.Format = req.Format
	rec.UpdatedAt = time.Now().UTC()

	if err := a.store.Update(r.Context(), rec); err != nil {
		a.logger.ErrorContext(r.Context(), "update record failed", logger.Error(err))
		a.render(w, r, storeErrorResponse(err))
		return
	}

	a.logger.InfoContext(r.Context(), "record updated", logger.RecordID(rec.ID.String()))
	a.render(w, r, response.JSON(rec))
}

func (a *App) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		a.render(w, r, response.JSONError(http.StatusBadRequest, "invalid record id"))
		return
	}

	if err := a.store.Delete(r.Context(), id); err != nil {
		a.render(w, r, storeErrorResponse(err))
		return
	}

	a.logger.InfoContext(r.Context(), "record deleted", logger.RecordID(id.String()))
	a.render(w, r, response.NoContent())
}

func (a *App) handleExportRecords(w http.ResponseWriter, r *http.Request) {
	data, err := record.Export(r.Context(), a.store)
	if err != nil {
		a.logger.ErrorContext(r.Context(), "export failed", logger.Error(err))
		a.render(w, r, response.JSONError(http.StatusInternalServerError, "export failed"))
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="codekeep-export.json"`)
	a.render(w, r, response.Bytes(data, "application/json; charset=utf-8"))
}

func (a *App) handleImportRecords(w http.ResponseWriter, r *http.Request) {
	mode := record.ImportMerge
	if r.URL.Query().Get("mode") == "replace" {
		mode = record.ImportReplace
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportSize))
	if err != nil {
		a.render(w, r, response.JSONError(http.StatusBadRequest, "failed to read body"))
		return
	}

	n, err := record.Import(r.Context(), a.store, data, mode)
	switch {
	case errors.Is(err, record.ErrInvalidExport), errors.Is(err, record.ErrUnsupportedVersion):
		a.render(w, r, response.JSONError(http.StatusBadRequest, err.Error()))
		return
	case err != nil:
		a.logger.ErrorContext(r.Context(), "import failed", logger.Error(err))
		a.render(w, r, response.JSONError(http.StatusInternalServerError, "import failed"))
		return
	}

	a.logger.InfoContext(r.Context(), "records imported", slog.Int("count", n))
	a.render(w, r, response.JSON(map[string]int{"imported": n}))
}

func (a *App) handleRecordImage(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		a.render(w, r, response.JSONError(http.StatusBadRequest, "invalid record id"))
		return
	}

	rec, err := a.store.Get(r.Context(), id)
	if err != nil {
		a.render(w, r, storeErrorResponse(err))
		return
	}

	size := 0
	if raw := r.URL.Query().Get("size"); raw != "" {
		size, err = strconv.Atoi(raw)
		if err != nil {
			a.render(w, r, response.JSONError(http.StatusBadRequest, "invalid size"))
			return
		}
	}

	png, err := barcode.Render(rec.Format, rec.Value, size)
	switch {
	case errors.Is(err, barcode.ErrUnsupportedFormat), errors.Is(err, barcode.ErrUnknownFormat):
		a.render(w, r, response.JSONError(http.StatusUnprocessableEntity,
			fmt.Sprintf("format %q cannot be rendered", rec.Format)))
		return
	case errors.Is(err, barcode.ErrInvalidSize):
		a.render(w, r, response.JSONError(http.StatusBadRequest, "invalid size"))
		return
	case err != nil:
		a.logger.ErrorContext(r.Context(), "render image failed",
			logger.RecordID(id.String()), logger.Error(err))
		a.render(w, r, response.JSONError(http.StatusInternalServerError, "render failed"))
		return
	}

	a.render(w, r, response.Bytes(png, "image/png"))
}
