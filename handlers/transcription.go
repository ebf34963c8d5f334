package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"simquiz_backend/transcript"
)

type TranscriptionHandler struct {
	transcriber Transcriber
}

func NewTranscriptionHandler(transcriber Transcriber) *TranscriptionHandler {
	return &TranscriptionHandler{transcriber: transcriber}
}

// Transcribe accepts a multipart "video" upload and returns its transcript.
func (h *TranscriptionHandler) Transcribe(c *gin.Context) {
	fh, err := c.FormFile("video")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No video file provided"})
		return
	}
	if fh.Size > transcript.MaxUploadBytes {
		respondError(c, fmt.Errorf("%w (%.2fMB)", transcript.ErrFileTooLarge, float64(fh.Size)/1024/1024))
		return
	}

	f, err := fh.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, transcript.MaxUploadBytes+1))
	if err != nil {
		respondError(c, err)
		return
	}

	text, err := h.transcriber.Transcribe(c.Request.Context(), fh.Filename, data)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transcript": text,
		"wordCount":  transcript.WordCount(text),
	})
}
