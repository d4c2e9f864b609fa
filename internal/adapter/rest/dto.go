package rest

import (
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/usecase"
)

// --- Requests ---

type registerRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phoneNumber"`
	PhoneCode   string `json:"phoneCode"`
	ReferredBy  string `json:"referredBy"`
	Type        string `json:"type"`
}

func (r registerRequest) toInput() domain.NewUserInput {
	return domain.NewUserInput{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Username:    r.Username,
		Email:       r.Email,
		Password:    r.Password,
		PhoneNumber: r.PhoneNumber,
		PhoneCode:   r.PhoneCode,
		ReferredBy:  r.ReferredBy,
		Type:        domain.AccountType(r.Type),
	}
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type socialRequest struct {
	Provider    string `json:"provider"`
	AccessToken string `json:"accessToken"`
}

type identifierRequest struct {
	Identifier string `json:"identifier"`
}

type resetPasswordRequest struct {
	Code     string `json:"code"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type verifyOTPRequest struct {
	Code string `json:"code"`
}

type fileInput struct {
	FileName string `json:"fileName"`
	URI      string `json:"uri"`
}

func toFileInputs(in []fileInput) []domain.FileInput {
	if in == nil {
		return nil
	}
	out := make([]domain.FileInput, len(in))
	for i, f := range in {
		out[i] = domain.FileInput{FileName: f.FileName, URI: f.URI}
	}
	return out
}

type createProductRequest struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Images      []fileInput `json:"images"`
	Price       float64     `json:"price"`
	PriceMax    *float64    `json:"priceMax"`
	Currency    string      `json:"currency"`
	Category    string      `json:"category"`
}

func (r createProductRequest) toInput() domain.CreateProductInput {
	return domain.CreateProductInput{
		Name:        r.Name,
		Description: r.Description,
		Images:      toFileInputs(r.Images),
		Price:       r.Price,
		PriceMax:    r.PriceMax,
		Currency:    domain.Currency(r.Currency),
		Category:    domain.ProductCategory(r.Category),
	}
}

type updateProductRequest struct {
	Name        *string     `json:"name"`
	Description *string     `json:"description"`
	Images      []fileInput `json:"images"`
	Price       *float64    `json:"price"`
	PriceMax    *float64    `json:"priceMax"`
	Currency    *string     `json:"currency"`
	Category    *string     `json:"category"`
}

func (r updateProductRequest) toInput() domain.UpdateProductInput {
	in := domain.UpdateProductInput{
		Name:        r.Name,
		Description: r.Description,
		Images:      toFileInputs(r.Images),
		Price:       r.Price,
		PriceMax:    r.PriceMax,
	}
	if r.Currency != nil {
		c := domain.Currency(*r.Currency)
		in.Currency = &c
	}
	if r.Category != nil {
		c := domain.ProductCategory(*r.Category)
		in.Category = &c
	}
	return in
}

type updateUserRequest struct {
	FirstName          *string    `json:"firstName"`
	LastName           *string    `json:"lastName"`
	Username           *string    `json:"username"`
	Email              *string    `json:"email"`
	PhoneNumber        *string    `json:"phoneNumber"`
	PhoneCode          *string    `json:"phoneCode"`
	Bio                *string    `json:"bio"`
	ShouldRemoveAvatar bool       `json:"shouldRemoveAvatar"`
	AvatarInput        *fileInput `json:"avatarInput"`
}

func (r updateUserRequest) toInput() domain.UpdateUserInput {
	in := domain.UpdateUserInput{
		FirstName:          r.FirstName,
		LastName:           r.LastName,
		Username:           r.Username,
		Email:              r.Email,
		PhoneNumber:        r.PhoneNumber,
		PhoneCode:          r.PhoneCode,
		Bio:                r.Bio,
		ShouldRemoveAvatar: r.ShouldRemoveAvatar,
	}
	if r.AvatarInput != nil {
		in.AvatarInput = &domain.FileInput{FileName: r.AvatarInput.FileName, URI: r.AvatarInput.URI}
	}
	return in
}

type bankInformationRequest struct {
	BankName          string `json:"bankName"`
	BankCode          string `json:"bankCode"`
	AccountName       string `json:"accountName"`
	AccountNumber     string `json:"accountNumber"`
	MobileMoneyCode   string `json:"mobileMoneyCode"`
	MobileMoneyNumber string `json:"mobileMoneyNumber"`
}

func (r bankInformationRequest) toInput() domain.BankInformation {
	return domain.BankInformation(r)
}

// --- Responses ---

type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func toTokenResponse(t *usecase.TokenPair) tokenResponse {
	return tokenResponse{AccessToken: t.AccessToken, RefreshToken: t.RefreshToken}
}

type resultResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func toResultResponse(r domain.OperationResult) resultResponse {
	return resultResponse{Success: r.Success, Message: r.Message}
}

type verifyOTPResponse struct {
	resultResponse
	Identifier string `json:"identifier"`
}

type pageResponse[T any] struct {
	List       []T   `json:"list"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int64 `json:"totalPages"`
}

func toPageResponse[S, T any](p domain.Page[S], convert func(S) T) pageResponse[T] {
	list := make([]T, len(p.List))
	for i, item := range p.List {
		list[i] = convert(item)
	}
	return pageResponse[T]{List: list, TotalCount: p.TotalCount, TotalPages: p.TotalPages}
}

type userResponse struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	PhoneCode   string    `json:"phoneCode"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	Avatar      string    `json:"avatar,omitempty"`
	Type        string    `json:"type"`
	ReferredBy  string    `json:"referredBy,omitempty"`
	IsDeleted   bool      `json:"isDeleted"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toUserResponse(u *domain.User) userResponse {
	resp := userResponse{
		ID:          u.ID.Hex(),
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		Username:    u.Username,
		PhoneCode:   u.PhoneCode,
		PhoneNumber: u.PhoneNumber,
		Bio:         u.Bio,
		Avatar:      u.Avatar,
		Type:        string(u.Type),
		IsDeleted:   u.IsDeleted,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
	if u.ReferredBy != nil {
		resp.ReferredBy = u.ReferredBy.Hex()
	}
	return resp
}

type profileResponse struct {
	User           userResponse `json:"user"`
	FollowerCount  int64        `json:"followerCount"`
	FollowingCount int64        `json:"followingCount"`
	IsFollowing    bool         `json:"isFollowing"`
}

func toProfileResponse(p *domain.UserProfile) profileResponse {
	return profileResponse{
		User:           toUserResponse(p.User),
		FollowerCount:  p.FollowerCount,
		FollowingCount: p.FollowingCount,
		IsFollowing:    p.IsFollowing,
	}
}

type publicProfileResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Avatar    string `json:"avatar,omitempty"`
}

func toPublicProfileResponse(p domain.PublicProfile) publicProfileResponse {
	return publicProfileResponse{
		ID:        p.ID.Hex(),
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Username:  p.Username,
		Avatar:    p.Avatar,
	}
}

type walletResponse struct {
	ID                string                `json:"id"`
	UserID            string                `json:"userId"`
	BankName          string                `json:"bankName,omitempty"`
	BankCode          string                `json:"bankCode,omitempty"`
	AccountName       string                `json:"accountName,omitempty"`
	AccountNumber     string                `json:"accountNumber,omitempty"`
	MobileMoneyCode   string                `json:"mobileMoneyCode,omitempty"`
	MobileMoneyNumber string                `json:"mobileMoneyNumber,omitempty"`
	Received          float64               `json:"received"`
	Spent             float64               `json:"spent"`
	Balance           float64               `json:"balance"`
	Owner             publicProfileResponse `json:"owner"`
	CreatedAt         time.Time             `json:"createdAt"`
	UpdatedAt         time.Time             `json:"updatedAt"`
}

func toWalletResponse(v *domain.WalletView) walletResponse {
	w := v.Wallet
	return walletResponse{
		ID:                w.ID.Hex(),
		UserID:            w.UserID.Hex(),
		BankName:          w.BankName,
		BankCode:          w.BankCode,
		AccountName:       w.AccountName,
		AccountNumber:     w.AccountNumber,
		MobileMoneyCode:   w.MobileMoneyCode,
		MobileMoneyNumber: w.MobileMoneyNumber,
		Received:          w.Received,
		Spent:             w.Spent,
		Balance:           w.Balance(),
		Owner:             toPublicProfileResponse(v.Owner),
		CreatedAt:         w.CreatedAt,
		UpdatedAt:         w.UpdatedAt,
	}
}

type productResponse struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Code        string                 `json:"code"`
	Category    string                 `json:"category"`
	Images      []string               `json:"images"`
	Price       float64                `json:"price"`
	PriceMax    *float64               `json:"priceMax,omitempty"`
	Currency    string                 `json:"currency"`
	IsDeleted   bool                   `json:"isDeleted"`
	VendorID    string                 `json:"vendorId"`
	Vendor      *publicProfileResponse `json:"vendor,omitempty"`
	LikeCount   int64                  `json:"likeCount"`
	IsLiked     *bool                  `json:"isLiked,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
}

func toProductResponse(p *domain.Product) productResponse {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return productResponse{
		ID:          p.ID.Hex(),
		Name:        p.Name,
		Description: p.Description,
		Code:        p.Code,
		Category:    string(p.Category),
		Images:      images,
		Price:       p.Price,
		PriceMax:    p.PriceMax,
		Currency:    string(p.Currency),
		IsDeleted:   p.IsDeleted,
		VendorID:    p.VendorID.Hex(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProductViewResponse(v *domain.ProductView) productResponse {
	resp := toProductResponse(v.Product)
	if v.Vendor != nil {
		vendor := toPublicProfileResponse(*v.Vendor)
		resp.Vendor = &vendor
	}
	resp.LikeCount = v.LikeCount
	resp.IsLiked = v.IsLiked
	return resp
}

type notificationResponse struct {
	ID         string    `json:"id"`
	ReceiverID string    `json:"receiverId"`
	SenderID   string    `json:"senderId,omitempty"`
	Type       string    `json:"type"`
	Status     string    `json:"status"`
	ProductID  string    `json:"productId,omitempty"`
	IsRead     bool      `json:"isRead"`
	Title      string    `json:"title,omitempty"`
	Content    string    `json:"content,omitempty"`
	Link       string    `json:"link,omitempty"`
	Icon       string    `json:"icon,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toNotificationResponse(n *domain.Notification) notificationResponse {
	resp := notificationResponse{
		ID:         n.ID.Hex(),
		ReceiverID: n.ReceiverID.Hex(),
		Type:       string(n.Type),
		Status:     string(n.Status),
		IsRead:     n.IsRead,
		Title:      n.Title,
		Content:    n.Content,
		Link:       n.Link,
		Icon:       n.Icon,
		CreatedAt:  n.CreatedAt,
	}
	if n.SenderID != nil {
		resp.SenderID = n.SenderID.Hex()
	}
	if n.ProductID != nil {
		resp.ProductID = n.ProductID.Hex()
	}
	return resp
}

type notificationsResponse struct {
	pageResponse[notificationResponse]
	UnreadCount int64 `json:"unReadCount"`
}
