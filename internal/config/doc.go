// Package config provides configuration management for ytmusic-downloader.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Conversion to the option types of the other packages
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// Downloads to ~/Music/YouTube Music
//	// Medium quality, sequential playlist downloads
//	// iTunes enrichment and ID3 tagging enabled
//
// # Loading from File
//
//	settings, err := config.Load(config.DefaultPath())
//	if err != nil {
//	    // The file exists but is malformed or invalid
//	}
//
// # Saving Settings
//
//	settings.AudioQuality = "high"
//	err := settings.Save(config.DefaultPath())
package config
