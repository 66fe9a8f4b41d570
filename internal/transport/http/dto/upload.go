package dto

type BatchUploadRequest struct {
	Items []BatchUploadItem `json:"items"`
}

type BatchUploadItem struct {
	Key         string `json:"key"`
	ContentType string `json:"contentType"`
	Dir         string `json:"dir,omitempty"`
}

type BatchUploadResponse struct {
	Items []SignedItem `json:"items"`
}

type SignedItem struct {
	Key       string `json:"key"`
	SignedURL string `json:"signedUrl"`
}

type SingleUploadRequest struct {
	FileName     string `json:"fileName"`
	FileType     string `json:"fileType"`
	Dir          string `json:"dir,omitempty"`
	RelativePath string `json:"relativePath,omitempty"`
}

type SingleUploadResponse struct {
	Key       string `json:"key"`
	SignedURL string `json:"signedUrl"`
	PublicURL string `json:"publicUrl,omitempty"`
}
