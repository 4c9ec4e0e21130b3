package domain

import "time"

// FileType is the accepted evidence format.
type FileType string

const (
	FileJPG FileType = "JPG"
	FilePNG FileType = "PNG"
	FilePDF FileType = "PDF"
)

// FileTypeFromMIME maps a sniffed content type to an evidence file type.
func FileTypeFromMIME(mime string) (FileType, bool) {
	switch mime {
	case "image/jpeg", "image/jpg":
		return FileJPG, true
	case "image/png":
		return FilePNG, true
	case "application/pdf":
		return FilePDF, true
	}
	return "", false
}

// Extension returns the file extension used when storing this type.
func (t FileType) Extension() string {
	switch t {
	case FilePNG:
		return ".png"
	case FilePDF:
		return ".pdf"
	default:
		return ".jpg"
	}
}

// ContentType returns the MIME type served on download.
func (t FileType) ContentType() string {
	switch t {
	case FilePNG:
		return "image/png"
	case FilePDF:
		return "application/pdf"
	default:
		return "image/jpeg"
	}
}

// Evidence is a file attached to an incident.
type Evidence struct {
	ID         int64     `json:"id_evidencia"`
	IncidentID int64     `json:"id_incidencia"`
	UploadedBy int64     `json:"usuario_subio"`
	Path       string    `json:"ruta_archivo"`
	Type       FileType  `json:"tipo_archivo"`
	UploadedAt time.Time `json:"fecha_subida"`
	Uploader   *UserRef  `json:"usuarioSubio,omitempty"`
}

// EvidenceStats summarizes the evidence of one incident by file type.
type EvidenceStats struct {
	Total     int              `json:"total"`
	ByType    map[FileType]int `json:"por_tipo"`
	Evidences []*Evidence      `json:"evidencias"`
}
