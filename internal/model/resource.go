package model

// Resource PDF-материал, загруженный администратором. Не изменяется после создания.
type Resource struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	UploadedAt string `json:"uploadedAt"`
}
