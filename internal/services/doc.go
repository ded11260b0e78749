// Package services defines the error taxonomy shared by the pipeline's
// remote-backend integrations (translation, synthesis, media tools).
package services
