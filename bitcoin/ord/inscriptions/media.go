// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package inscriptions

import "strings"

// Media classifies an inscription's content for display purposes.
type Media uint8

const (
	MediaUnknown Media = iota
	MediaAudio
	MediaCode
	MediaFont
	MediaIframe
	MediaImage
	MediaMarkdown
	MediaModel
	MediaPdf
	MediaText
	MediaVideo
)

// MediaFromContentType classifies contentType into a Media bucket,
// following the same content-type prefix/exact-match rules as the
// reference indexer.
func MediaFromContentType(contentType string) Media {
	switch {
	case strings.HasPrefix(contentType, "audio/"):
		return MediaAudio
	case strings.HasPrefix(contentType, "font/"):
		return MediaFont
	case strings.HasPrefix(contentType, "image/"):
		return MediaImage
	case strings.HasPrefix(contentType, "model/"):
		return MediaModel
	case strings.HasPrefix(contentType, "text/"):
		switch contentType {
		case "text/html":
			return MediaIframe
		case "text/markdown":
			return MediaMarkdown
		case "text/plain":
			return MediaText
		default:
			if strings.Contains(contentType, "javascript") || strings.Contains(contentType, "json") {
				return MediaCode
			}
			return MediaText
		}
	case strings.HasPrefix(contentType, "video/"):
		return MediaVideo
	case contentType == "application/pdf":
		return MediaPdf
	case strings.Contains(contentType, "json") || strings.Contains(contentType, "javascript"):
		return MediaCode
	default:
		return MediaUnknown
	}
}

// String returns the lowercase media name used in the read API.
func (m Media) String() string {
	switch m {
	case MediaAudio:
		return "audio"
	case MediaCode:
		return "code"
	case MediaFont:
		return "font"
	case MediaIframe:
		return "iframe"
	case MediaImage:
		return "image"
	case MediaMarkdown:
		return "markdown"
	case MediaModel:
		return "model"
	case MediaPdf:
		return "pdf"
	case MediaText:
		return "text"
	case MediaVideo:
		return "video"
	default:
		return "unknown"
	}
}
