// Package chatapi exposes the quotation dialogue over HTTP JSON. It is
// the messaging channel: each session is one conversation, and each
// POST to the messages endpoint is one turn. Generated documents are
// served from here until the retention sweeper removes them.
package chatapi

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/joelkehle/quotedesk/internal/assembly"
	"github.com/joelkehle/quotedesk/internal/docstore"
)

// DocumentIndex is the slice of the document store the handlers need.
type DocumentIndex interface {
	ByFilePath(path string) (docstore.Document, bool, error)
	Count() (int, error)
}

type server struct {
	flow     *assembly.Flow
	sessions *assembly.Store
	docs     DocumentIndex
	docDir   string
}

func NewServer(flow *assembly.Flow, sessions *assembly.Store, docs DocumentIndex, docDir string) http.Handler {
	s := &server{
		flow:     flow,
		sessions: sessions,
		docs:     docs,
		docDir:   docDir,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/sessions", s.handleCreateSession)
	mux.HandleFunc("/v1/sessions/", s.handleSession)
	mux.HandleFunc("/v1/documents/", s.handleDocument)
	mux.HandleFunc("/v1/health", s.handleHealth)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

func (s *server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Mode string `json:"mode"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, 400, "invalid JSON body")
			return
		}
	}

	mode := assembly.Mode(req.Mode)
	switch mode {
	case "":
		mode = assembly.ModeFreeform
	case assembly.ModeFreeform, assembly.ModeGuided:
	default:
		writeError(w, 400, "mode must be freeform or guided")
		return
	}

	sess := s.sessions.Create(mode)
	reply := s.flow.Begin(sess)
	writeJSON(w, 201, map[string]any{
		"session_id": sess.ID,
		"mode":       sess.Mode,
		"reply":      reply,
	})
}

// handleSession dispatches /v1/sessions/{id}[/messages|/confirm|/cancel].
func (s *server) handleSession(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/sessions/")
	parts := strings.SplitN(strings.TrimSuffix(rest, "/"), "/", 2)
	id := parts[0]
	if id == "" {
		writeError(w, 400, "session id is required")
		return
	}

	sess, err := s.sessions.Get(id)
	if err != nil {
		writeError(w, 404, "session not found")
		return
	}

	action := ""
	if len(parts) == 2 {
		action = parts[1]
	}

	switch action {
	case "":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		s.handleGetSession(w, sess)
	case "messages":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		s.handleMessage(w, r, sess)
	case "confirm":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		s.handleConfirm(w, r, sess)
	case "cancel":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		s.handleCancel(w, r, sess)
	default:
		http.NotFound(w, r)
	}
}

func (s *server) handleGetSession(w http.ResponseWriter, sess *assembly.Session) {
	writeJSON(w, 200, map[string]any{
		"session_id":     sess.ID,
		"mode":           sess.Mode,
		"phase":          sess.Phase,
		"record":         sess.Record,
		"missing_fields": sess.Missing,
		"created_at":     sess.CreatedAt,
	})
}

func (s *server) handleMessage(w http.ResponseWriter, r *http.Request, sess *assembly.Session) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, 400, "text is required")
		return
	}

	sess.Lock()
	reply := s.flow.HandleMessage(r.Context(), sess, req.Text)
	sess.Unlock()
	writeJSON(w, 200, sessionReply(sess, reply))
}

func (s *server) handleConfirm(w http.ResponseWriter, r *http.Request, sess *assembly.Session) {
	var req struct {
		Accept *bool `json:"accept"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, "invalid JSON body")
		return
	}
	if req.Accept == nil {
		writeError(w, 400, "accept is required")
		return
	}

	ctx := withSessionID(r.Context(), sess.ID)
	sess.Lock()
	reply := s.flow.Confirm(ctx, sess, *req.Accept)
	sess.Unlock()

	out := sessionReply(sess, reply)
	if reply.DocumentPath != "" {
		out["document_url"] = "/v1/documents/" + filepath.Base(reply.DocumentPath)
	}
	writeJSON(w, 200, out)
}

func (s *server) handleCancel(w http.ResponseWriter, r *http.Request, sess *assembly.Session) {
	sess.Lock()
	reply := s.flow.Cancel(sess)
	sess.Unlock()
	s.sessions.Delete(sess.ID)
	writeJSON(w, 200, sessionReply(sess, reply))
}

// handleDocument serves a generated quotation file. Only files still in
// the document index are served; swept files 404 even if a stale copy
// is somehow on disk.
func (s *server) handleDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/v1/documents/")
	if name == "" || name != filepath.Base(name) {
		writeError(w, 400, "document name is required")
		return
	}

	path := filepath.Join(s.docDir, name)
	_, ok, err := s.docs.ByFilePath(path)
	if err != nil {
		writeError(w, 500, "document index unavailable")
		return
	}
	if !ok {
		writeError(w, 404, "document not found or expired")
		return
	}
	http.ServeFile(w, r, path)
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	docCount, err := s.docs.Count()
	if err != nil {
		docCount = -1
	}
	writeJSON(w, 200, map[string]any{
		"status":    "ok",
		"sessions":  s.sessions.Len(),
		"documents": docCount,
	})
}

func sessionReply(sess *assembly.Session, reply assembly.Reply) map[string]any {
	return map[string]any{
		"session_id": sess.ID,
		"reply":      reply,
	}
}
