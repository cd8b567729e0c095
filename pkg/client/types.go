package client

import "time"

// Roles as the server reports them.
const (
	RoleFreelancer = "freelancer"
	RoleStagiaire  = "stagiaire"
	RoleEntreprise = "entreprise"
	RoleAdmin      = "admin"
)

// User is the public account view returned by the API. It never carries a
// password hash.
type User struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Skills    []string  `json:"skills"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type RegisterRequest struct {
	FullName string   `json:"fullName"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Role     string   `json:"role"`
	Skills   []string `json:"skills,omitempty"`
}

type LoginResponse struct {
	Msg       string    `json:"msg"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      *User     `json:"user"`
}

type Offer struct {
	ID           string    `json:"id"`
	EntrepriseID string    `json:"entrepriseId"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Type         string    `json:"type"`
	Location     string    `json:"location"`
	Requirements []string  `json:"requirements"`
	CreatedAt    time.Time `json:"createdAt"`
}

type CreateOfferRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Type         string   `json:"type"`
	Location     string   `json:"location,omitempty"`
	Requirements []string `json:"requirements,omitempty"`
}

type Application struct {
	ID        string    `json:"id"`
	OfferID   string    `json:"offerId"`
	UserID    string    `json:"userId"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type Post struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Images    []string  `json:"images"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type PostInput struct {
	Title  string   `json:"title"`
	Body   string   `json:"body"`
	Images []string `json:"images,omitempty"`
	Tags   []string `json:"tags,omitempty"`
}

// PostPatch leaves nil fields untouched.
type PostPatch struct {
	Title  *string   `json:"title,omitempty"`
	Body   *string   `json:"body,omitempty"`
	Images *[]string `json:"images,omitempty"`
	Tags   *[]string `json:"tags,omitempty"`
}
