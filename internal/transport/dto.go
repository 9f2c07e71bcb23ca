package transport

import "github.com/Skotchmaster/hugelabz/internal/models"

type CreateProductRequest struct {
	Name            string                  `json:"name"`
	Description     string                  `json:"description"`
	Category        string                  `json:"category"`
	Image           string                  `json:"image"`
	Tagline         string                  `json:"tagline"`
	Benefits        []string                `json:"benefits"`
	Usage           string                  `json:"usage"`
	Ingredients     string                  `json:"ingredients"`
	Highlight       string                  `json:"highlight"`
	Goal            string                  `json:"goal"`
	Servings        string                  `json:"servings"`
	SupplementFacts *models.SupplementFacts `json:"supplementFacts"`
}

func (r CreateProductRequest) Product() *models.Product {
	return &models.Product{
		Name:            r.Name,
		Description:     r.Description,
		Category:        r.Category,
		Image:           r.Image,
		Tagline:         r.Tagline,
		Benefits:        r.Benefits,
		Usage:           r.Usage,
		Ingredients:     r.Ingredients,
		Highlight:       r.Highlight,
		Goal:            r.Goal,
		Servings:        r.Servings,
		SupplementFacts: r.SupplementFacts,
	}
}

type PatchProductRequest struct {
	Name            *string                 `json:"name"`
	Description     *string                 `json:"description"`
	Category        *string                 `json:"category"`
	Image           *string                 `json:"image"`
	Tagline         *string                 `json:"tagline"`
	Benefits        []string                `json:"benefits"`
	Usage           *string                 `json:"usage"`
	Ingredients     *string                 `json:"ingredients"`
	Highlight       *string                 `json:"highlight"`
	Goal            *string                 `json:"goal"`
	Servings        *string                 `json:"servings"`
	SupplementFacts *models.SupplementFacts `json:"supplementFacts"`
}

type PageMeta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

type ProductListResponse struct {
	Data []models.Product `json:"data"`
	Meta PageMeta         `json:"meta"`
}

type CategoryRequest struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Image string `json:"image"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type CreateSerialRequest struct {
	Code      string `json:"code"`
	ProductID string `json:"productId"`
}

// BulkSerialRequest accepts either a code list or the raw newline-separated
// upload text.
type BulkSerialRequest struct {
	Codes     []string `json:"codes"`
	Text      string   `json:"text"`
	ProductID string   `json:"productId"`
}

type BulkSerialResponse struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

type GenerateResponse struct {
	Code string `json:"code"`
}

type VerifyRequest struct {
	Code   string  `json:"code"`
	UserID *string `json:"userId"`
}

type VerifyResponse struct {
	Success         bool                 `json:"success"`
	Serial          *models.SerialNumber `json:"serial,omitempty"`
	Product         *models.Product      `json:"product,omitempty"`
	AlreadyVerified bool                 `json:"alreadyVerified,omitempty"`
	Error           string               `json:"error,omitempty"`
}

type SerialCSVRow struct {
	Code       string `csv:"code"`
	Product    string `csv:"product"`
	Verified   bool   `csv:"verified"`
	VerifiedAt string `csv:"verifiedAt"`
	CreatedAt  string `csv:"createdAt"`
}

type DashboardResponse struct {
	Products            int64                       `json:"products"`
	Categories          int64                       `json:"categories"`
	Serials             int64                       `json:"serials"`
	VerifiedSerials     int64                       `json:"verifiedSerials"`
	Verifications       int64                       `json:"verifications"`
	RecentVerifications []models.VerificationRecord `json:"recentVerifications"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}
