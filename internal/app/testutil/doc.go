// Package testutil provides testing utilities shared across packages.
//
//   - Mocks (mock_transcriber.go): testify mocks of the transcription and
//     summarization clients. The session service mock lives in servicemock so
//     that packages below the API layer can use this package in their tests.
//   - Fake remote APIs (fixtures.go): httptest servers that speak the
//     OpenAI-compatible transcription endpoint and Gemini generateContent.
//   - Fixtures (fixtures.go): sample texts and a minimal WAV payload.
//   - Logging (logger.go): a zap logger backed by an observer core.
//
// # Usage
//
//	func TestTranscribe(t *testing.T) {
//	    groq := testutil.NewFakeTranscriptionServer(t, http.StatusOK, "hello")
//	    rt := whisper.NewRemoteTranscriber(whisper.Config{BaseURL: groq.URL + "/v1"}, nil)
//	    text, err := rt.Transcribe(ctx, testutil.TestAudioAsset("a.wav"), "key")
//	    // ...
//	}
package testutil
