// Package tts turns translated text into speech clips. Three hosted
// backends are supported: FPT.AI (best Vietnamese voices), ElevenLabs
// (multilingual), and OpenAI. Every provider writes an MP3 clip into the
// configured directory and returns its path.
package tts
