// Package transcription turns a named audio stream into plain transcript text.
package transcription

import (
	"context"
	"errors"

	"github.com/sashabaranov/go-openai"

	"call-analysis-go/internal/apperrors"
	"call-analysis-go/internal/audio"
	"call-analysis-go/internal/logger"
)

// Service is the collaborator name used in RemoteService errors.
const Service = "transcription"

// Transcriber issues one speech-to-text call per invocation.
type Transcriber interface {
	Transcribe(ctx context.Context, stream *audio.NamedStream, modelID string) (string, error)
}

// OpenAIClient transcribes through the audio/transcriptions endpoint of
// OpenAI or an Azure OpenAI whisper deployment.
type OpenAIClient struct {
	client *openai.Client
	log    *logger.Logger
}

func NewOpenAIClient(client *openai.Client, log *logger.Logger) *OpenAIClient {
	return &OpenAIClient{client: client, log: log.Component("transcription")}
}

// Transcribe uploads the stream under its logical name so the service can
// infer the audio format from the extension. The text is returned verbatim;
// there are no retries.
func (c *OpenAIClient) Transcribe(ctx context.Context, stream *audio.NamedStream, modelID string) (string, error) {
	if stream == nil {
		return "", apperrors.RemoteService(Service, errors.New("nil stream"))
	}
	log := c.log.WithField("file", stream.Name()).WithField("model", modelID)
	log.WithField("bytes", stream.Len()).Debug("sending transcription request")

	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    modelID,
		FilePath: stream.Name(),
		Reader:   stream,
	})
	if err != nil {
		log.WithField("error", err.Error()).Warn("transcription request failed")
		return "", apperrors.RemoteService(Service, err)
	}
	log.WithField("chars", len(resp.Text)).Info("transcription received")
	return resp.Text, nil
}

var _ Transcriber = (*OpenAIClient)(nil)
