package speech

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecognizer struct {
	resp *speechpb.RecognizeResponse
	err  error
	got  *speechpb.RecognizeRequest
}

func (f *fakeRecognizer) Recognize(_ context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error) {
	f.got = req
	return f.resp, f.err
}

func writeWave(t *testing.T, dir string, sampleRate, channels int) string {
	t.Helper()
	path := filepath.Join(dir, "clip.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           make([]int, 1600*channels),
		SourceBitDepth: 16,
	}
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())
	return path
}

func result(text string) *speechpb.SpeechRecognitionResult {
	return &speechpb.SpeechRecognitionResult{
		Alternatives: []*speechpb.SpeechRecognitionAlternative{{Transcript: text}},
	}
}

func TestTranscribeJoinsSegmentsAndDeletesFile(t *testing.T) {
	t.Parallel()

	path := writeWave(t, t.TempDir(), 16000, 1)
	rec := &fakeRecognizer{resp: &speechpb.RecognizeResponse{
		Results: []*speechpb.SpeechRecognitionResult{result("สวัสดีค่ะ"), {}, result("hello there")},
	}}

	tr := NewTranscriber(nil, rec, DefaultConfig(), nil)
	text, err := tr.Transcribe(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "สวัสดีค่ะ\nhello there", text)

	require.NotNil(t, rec.got)
	cfg := rec.got.GetConfig()
	assert.Equal(t, speechpb.RecognitionConfig_LINEAR16, cfg.GetEncoding())
	assert.Equal(t, int32(16000), cfg.GetSampleRateHertz())
	assert.Equal(t, "th-TH", cfg.GetLanguageCode())
	assert.Equal(t, []string{"en-US"}, cfg.GetAlternativeLanguageCodes())
	assert.Equal(t, "latest_long", cfg.GetModel())
	assert.True(t, cfg.GetUseEnhanced())
	assert.NotEmpty(t, rec.got.GetAudio().GetContent())

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestTranscribeRecognizerFailure(t *testing.T) {
	t.Parallel()

	path := writeWave(t, t.TempDir(), 16000, 1)
	rec := &fakeRecognizer{err: errors.New("quota exceeded")}

	_, err := NewTranscriber(nil, rec, DefaultConfig(), nil).Transcribe(context.Background(), path)
	require.ErrorIs(t, err, ErrTranscription)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestTranscribeEmptyResult(t *testing.T) {
	t.Parallel()

	path := writeWave(t, t.TempDir(), 16000, 1)
	rec := &fakeRecognizer{resp: &speechpb.RecognizeResponse{}}

	_, err := NewTranscriber(nil, rec, DefaultConfig(), nil).Transcribe(context.Background(), path)
	require.ErrorIs(t, err, ErrTranscription)
	assert.ErrorIs(t, err, ErrNoSpeech)
}

func TestTranscribeRejectsWrongFormat(t *testing.T) {
	t.Parallel()

	path := writeWave(t, t.TempDir(), 44100, 2)
	rec := &fakeRecognizer{}

	_, err := NewTranscriber(nil, rec, DefaultConfig(), nil).Transcribe(context.Background(), path)
	require.ErrorIs(t, err, ErrTranscription)
	assert.Nil(t, rec.got)
}

func TestTranscribeRejectsNonWave(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "clip.wav")
	require.NoError(t, os.WriteFile(path, []byte("not a riff file"), 0o600))

	_, err := NewTranscriber(nil, &fakeRecognizer{}, DefaultConfig(), nil).Transcribe(context.Background(), path)
	require.ErrorIs(t, err, ErrTranscription)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFlattenNil(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "", Flatten(nil))
}
