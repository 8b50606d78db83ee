package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/ifcqto/pkg/buildinfo"
	"github.com/matzehuels/ifcqto/pkg/cache"
	"github.com/matzehuels/ifcqto/pkg/errors"
	ifcio "github.com/matzehuels/ifcqto/pkg/io"
	"github.com/matzehuels/ifcqto/pkg/material"
	"github.com/matzehuels/ifcqto/pkg/pipeline"
	"github.com/matzehuels/ifcqto/pkg/store"
	"github.com/matzehuels/ifcqto/pkg/takeoff"
)

// incompleteHeader reports how many elements a timed-out takeoff skipped.
const incompleteHeader = "X-Takeoff-Incomplete"

const defaultFilename = "model.json"

// Service status values reported by /health and send-qto.
const (
	statusConnected    = "connected"
	statusDisconnected = "disconnected"
	statusUnavailable  = "unavailable"
)

// =============================================================================
// Response Types
// =============================================================================

type uploadResponse struct {
	Message      string         `json:"message"`
	ModelID      string         `json:"model_id"`
	Filename     string         `json:"filename"`
	ElementCount int            `json:"element_count"`
	EntityTypes  map[string]int `json:"entity_types"`
}

type modelInfo struct {
	ModelID      string         `json:"model_id"`
	Filename     string         `json:"filename"`
	ElementCount int            `json:"element_count"`
	EntityCounts map[string]int `json:"entity_counts"`
}

type healthResponse struct {
	Status         string `json:"status"`
	Publisher      string `json:"publisher"`
	Store          string `json:"store"`
	ModelsInMemory int    `json:"models_in_memory"`
	Version        string `json:"version"`
}

type sendRequest struct {
	Project  string            `json:"project"`
	Elements []takeoff.Element `json:"elements"`
}

type sendResponse struct {
	Message       string `json:"message"`
	ModelID       string `json:"model_id"`
	ElementCount  int    `json:"element_count"`
	PublishStatus string `json:"publish_status"`
	StoreStatus   string `json:"store_status"`
}

type layersRequest struct {
	Text string `json:"text"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: "IFC QTO API is running"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	writeJSON(w, http.StatusOK, healthResponse{
		Status:         "healthy",
		Publisher:      pingStatus(s.publisher.Ping(ctx)),
		Store:          pingStatus(s.store.Ping(ctx)),
		ModelsInMemory: s.models.len(),
		Version:        buildinfo.Version,
	})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	data, filename, err := s.readUpload(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := errors.ValidateFilename(filename); err != nil {
		s.writeError(w, err)
		return
	}

	m, err := ifcio.DecodeModel(data)
	if err != nil {
		s.writeError(w, err)
		return
	}

	id := s.models.add(&model{
		Filename:   filename,
		Hash:       cache.Hash(data),
		Model:      m,
		UploadedAt: s.now(),
	})
	s.logger.Info("model uploaded", "model_id", id, "filename", filename, "elements", len(m.Elements))

	writeJSON(w, http.StatusOK, uploadResponse{
		Message:      "Model uploaded successfully",
		ModelID:      id,
		Filename:     filename,
		ElementCount: len(m.Elements),
		EntityTypes:  m.EntityCounts(),
	})
}

// readUpload reads the model document from a multipart "file" field or
// from the raw body. A raw body takes its filename from ?filename=.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	var (
		body     io.Reader = r.Body
		filename           = r.URL.Query().Get("filename")
	)
	if mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mt == "multipart/form-data" {
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "missing multipart field \"file\"")
		}
		defer file.Close()
		body, filename = file, filepath.Base(header.Filename)
	}
	if filename == "" {
		filename = defaultFilename
	}

	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, "", errors.New(errors.ErrCodeInvalidInput, "model document exceeds %d bytes", tooLarge.Limit)
		}
		return nil, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "read upload")
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, "", errors.New(errors.ErrCodeInvalidInput, "uploaded file is empty")
	}
	return data, filename, nil
}

func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	models := s.models.list()
	out := make([]modelInfo, 0, len(models))
	for _, m := range models {
		out = append(out, modelInfo{
			ModelID:      m.ID,
			Filename:     m.Filename,
			ElementCount: len(m.Model.Elements),
			EntityCounts: m.Model.EntityCounts(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteModel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.models.remove(id) {
		s.writeError(w, notFound(id))
		return
	}
	s.logger.Info("model deleted", "model_id", id)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Model deleted successfully"})
}

func (s *Server) handleElements(w http.ResponseWriter, r *http.Request) {
	m, result, err := s.takeoffOf(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Debug("elements", "model_id", m.ID, "elements", len(result.Elements), "cache_hit", result.CacheInfo.Hit)
	setIncomplete(w, result)
	writeJSON(w, http.StatusOK, result.Elements)
}

func (s *Server) handleQTO(w http.ResponseWriter, r *http.Request) {
	m, result, err := s.takeoffOf(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	setIncomplete(w, result)
	writeJSON(w, http.StatusOK, pipeline.NewMessage("", m.Filename, result.Elements, s.now()))
}

func (s *Server) handleSendQTO(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	m, ok := s.models.get(id)
	if !ok {
		s.writeError(w, notFound(id))
		return
	}

	var req sendRequest
	if err := decodeOptional(w, r, s.maxUpload, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Project != "" {
		if err := errors.ValidateProjectName(req.Project); err != nil {
			s.writeError(w, err)
			return
		}
	}

	elements := req.Elements
	if elements == nil {
		result, err := s.runner.Execute(r.Context(), m.Model, s.takeoffOptions(m, r))
		if err != nil {
			s.writeError(w, err)
			return
		}
		setIncomplete(w, result)
		elements = result.Elements
	} else {
		s.logger.Info("using client elements", "model_id", id, "elements", len(elements))
	}

	msg := pipeline.NewMessage(req.Project, m.Filename, elements, s.now())
	ctx := r.Context()
	resp := sendResponse{ModelID: id, ElementCount: msg.ElementCount, StoreStatus: statusConnected}

	if err := s.persist(ctx, msg); err != nil {
		s.logger.Warn("store takeoff", "file_id", msg.FileID, "error", err)
		resp.StoreStatus = statusUnavailable
	}

	if msgID, err := s.publisher.Publish(ctx, msg); err != nil {
		s.logger.Warn("publish takeoff", "file_id", msg.FileID, "error", err)
		resp.Message = "QTO data processed but not published (publisher unavailable)"
		resp.PublishStatus = statusUnavailable
	} else {
		s.logger.Info("published takeoff", "file_id", msg.FileID, "message_id", msgID, "elements", msg.ElementCount)
		resp.Message = "QTO data published successfully"
		resp.PublishStatus = statusConnected
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLayers(w http.ResponseWriter, r *http.Request) {
	var req layersRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	writeJSON(w, http.StatusOK, material.ParseLayersString(req.Text))
}

// =============================================================================
// Helpers
// =============================================================================

// takeoffOf runs the takeoff of the model named by the {id} route parameter.
func (s *Server) takeoffOf(r *http.Request) (*model, *pipeline.Result, error) {
	id := chi.URLParam(r, "id")
	m, ok := s.models.get(id)
	if !ok {
		return nil, nil, notFound(id)
	}
	result, err := s.runner.Execute(r.Context(), m.Model, s.takeoffOptions(m, r))
	if err != nil {
		return nil, nil, err
	}
	return m, result, nil
}

// takeoffOptions applies ?classes= on top of the server defaults.
func (s *Server) takeoffOptions(m *model, r *http.Request) pipeline.Options {
	opts := s.takeoff
	opts.DocumentHash = m.Hash
	opts.Name = m.Filename
	if classes := pipeline.ParseClasses(r.URL.Query().Get("classes")); len(classes) > 0 {
		opts.Classes = classes
	}
	return opts
}

// persist saves the project and the takeoff of msg.
func (s *Server) persist(ctx context.Context, msg pipeline.Message) error {
	if _, err := s.store.SaveProject(ctx, store.NewProject(msg)); err != nil {
		return errors.Wrap(errors.ErrCodeStoreUnavailable, err, "save project %s", msg.Project)
	}
	if err := s.store.SaveTakeoff(ctx, msg); err != nil {
		return errors.Wrap(errors.ErrCodeStoreUnavailable, err, "save takeoff %s", msg.FileID)
	}
	return nil
}

// decodeOptional decodes a JSON body of at most limit bytes into v. An empty
// body leaves v unset.
func decodeOptional(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || stderrors.Is(err, io.EOF) {
		return nil
	}
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit)
	}
	return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
}

func setIncomplete(w http.ResponseWriter, result *pipeline.Result) {
	if result.Stats.Incomplete > 0 {
		w.Header().Set(incompleteHeader, strconv.Itoa(result.Stats.Incomplete))
	}
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeModelNotFound, "model %s not found", id)
}

func pingStatus(err error) string {
	if err != nil {
		return statusDisconnected
	}
	return statusConnected
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	// client errors carry their cause, server errors only the summary
	msg := strings.TrimPrefix(err.Error(), string(code)+": ")
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
		msg = errors.UserMessage(err)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
