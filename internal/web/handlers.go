package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"meeting-minutes/internal/media"
	"meeting-minutes/internal/minutes"
)

const (
	msgNoFilePart     = "No file part in the request."
	msgNoFileSelected = "No file selected."
	msgNotAllowed     = "File type not allowed."
	msgNoMinutes      = "No minutes available. Please upload a file."
	msgProcessFailed  = "Processing failed: %v"

	multipartMemory = 32 << 20
)

// handleIndex renders the upload form.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	id, sess := s.loadSession(w, r)
	flashes := sess.Flashes
	sess.Flashes = nil
	s.sessions.Save(id, sess)

	s.render(w, s.pages.index, indexView{
		Flashes:  flashes,
		Accept:   media.AcceptAttribute(),
		MaxSize:  s.maxSizeLabel(),
		Model:    s.model,
		Accepted: media.Extensions(),
	})
}

// handleUpload stores the file briefly, runs the generator and redirects.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	id, sess := s.loadSession(w, r)

	if r.ContentLength > s.cfg.MaxUploadBytes {
		s.flashRedirect(w, r, id, sess, s.tooLargeMessage(), "/")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.flashRedirect(w, r, id, sess, s.tooLargeMessage(), "/")
			return
		}
		s.flashRedirect(w, r, id, sess, msgNoFilePart, "/")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		msg := msgNoFilePart
		// Browsers send an empty filename part when nothing was picked.
		if _, ok := r.MultipartForm.Value[uploadField]; ok {
			msg = msgNoFileSelected
		}
		s.flashRedirect(w, r, id, sess, msg, "/")
		return
	}
	defer file.Close()

	original := clientFilename(header.Filename)
	if original == "" {
		s.flashRedirect(w, r, id, sess, msgNoFileSelected, "/")
		return
	}
	if !media.IsAllowed(original) {
		s.flashRedirect(w, r, id, sess, msgNotAllowed, "/")
		return
	}

	path, err := s.storeUpload(file, original)
	if err != nil {
		s.log.Error().Err(err).Str("filename", original).Msg("store upload")
		s.flashRedirect(w, r, id, sess, fmt.Sprintf(msgProcessFailed, err), "/")
		return
	}
	defer s.removeUpload(path)

	log := s.log.With().Str("session", shortID(id)).Str("filename", original).Logger()
	text := s.generator.GenerateMinutes(r.Context(), minutes.Request{
		FilePath: path,
		MIMEType: media.MIMEType(original),
		Model:    s.model,
		Prompt:   s.prompt,
		Reporter: minutes.LogReporter{Logger: log},
	})

	sess.Result = text
	sess.OriginalFilename = original
	if minutes.IsError(text) {
		s.flashRedirect(w, r, id, sess, text, "/")
		return
	}

	s.sessions.Save(id, sess)
	http.Redirect(w, r, "/result", http.StatusFound)
}

// handleResult shows the minutes stored in the session.
func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	id, sess := s.loadSession(w, r)
	if sess.Result == "" {
		s.flashRedirect(w, r, id, sess, msgNoMinutes, "/")
		return
	}
	if minutes.IsError(sess.Result) {
		s.flashRedirect(w, r, id, sess, sess.Result, "/")
		return
	}

	flashes := sess.Flashes
	sess.Flashes = nil
	s.sessions.Save(id, sess)

	s.render(w, s.pages.result, resultView{
		Flashes:      flashes,
		Minutes:      sess.Result,
		DownloadName: media.DownloadName(sess.OriginalFilename, s.now()),
	})
}

// handleDownload sends the minutes as a Markdown attachment.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id, sess := s.loadSession(w, r)
	if sess.Result == "" {
		s.flashRedirect(w, r, id, sess, msgNoMinutes, "/")
		return
	}

	name := media.DownloadName(sess.OriginalFilename, s.now())
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Content-Length", fmt.Sprint(len(sess.Result)))
	_, _ = io.WriteString(w, sess.Result)
}

// handleHealth reports startup diagnostics as JSON.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.diagnostics()
	status := http.StatusOK
	if report.HasFailures {
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(report); err != nil {
		s.log.Warn().Err(err).Msg("encode health report")
	}
}

// storeUpload copies the upload into a uniquely named file in the upload dir.
func (s *Server) storeUpload(src io.Reader, original string) (string, error) {
	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	safe := media.SecureFilename(original)
	if safe == "" {
		safe = "upload"
	}
	dst, err := os.CreateTemp(s.cfg.UploadDir, "*-"+safe)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("close upload file: %w", err)
	}
	return dst.Name(), nil
}

// removeUpload deletes the transient copy; failures are only logged.
func (s *Server) removeUpload(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.log.Warn().Err(err).Str("path", path).Msg("remove upload")
	}
}

// loadSession returns the caller's session, issuing a new cookie if needed.
func (s *Server) loadSession(w http.ResponseWriter, r *http.Request) (string, Session) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if sess, ok := s.sessions.Get(cookie.Value); ok {
			return cookie.Value, sess
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.sessions.Save(id, Session{})
	return id, Session{}
}

// flashRedirect queues msg for the next page and redirects to target.
func (s *Server) flashRedirect(w http.ResponseWriter, r *http.Request, id string, sess Session, msg, target string) {
	sess.Flashes = append(sess.Flashes, msg)
	s.sessions.Save(id, sess)
	http.Redirect(w, r, target, http.StatusFound)
}

func (s *Server) maxSizeLabel() string {
	return humanize.IBytes(uint64(s.cfg.MaxUploadBytes))
}

func (s *Server) tooLargeMessage() string {
	return fmt.Sprintf("File is too large (max %s).", s.maxSizeLabel())
}

// clientFilename strips any directory part a browser may send.
func clientFilename(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSpace(name)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
