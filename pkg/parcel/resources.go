package parcel

import "time"

// ParcelStatus is the lifecycle state of a parcel. Transitions are enforced
// server-side; the client mirrors the machine so UIs and the CLI can present
// it faithfully.
type ParcelStatus string

const (
	ParcelStatusRegistered         ParcelStatus = "registered"
	ParcelStatusInTransit          ParcelStatus = "in_transit"
	ParcelStatusAvailableForPickup ParcelStatus = "available_for_pickup"
	ParcelStatusDelivered          ParcelStatus = "delivered"
	ParcelStatusReturned           ParcelStatus = "returned"
)

// Terminal reports whether no further transitions are possible.
func (s ParcelStatus) Terminal() bool {
	return s == ParcelStatusDelivered || s == ParcelStatusReturned
}

// Valid reports whether s is a known status value.
func (s ParcelStatus) Valid() bool {
	switch s {
	case ParcelStatusRegistered, ParcelStatusInTransit,
		ParcelStatusAvailableForPickup, ParcelStatusDelivered,
		ParcelStatusReturned:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the server would accept a transition from
// s to next: the forward chain registered → in_transit →
// available_for_pickup → delivered, with returned reachable from any
// non-terminal state.
func (s ParcelStatus) CanTransitionTo(next ParcelStatus) bool {
	if s.Terminal() || !next.Valid() {
		return false
	}

	if next == ParcelStatusReturned {
		return true
	}

	switch s {
	case ParcelStatusRegistered:
		return next == ParcelStatusInTransit
	case ParcelStatusInTransit:
		return next == ParcelStatusAvailableForPickup
	case ParcelStatusAvailableForPickup:
		return next == ParcelStatusDelivered
	default:
		return false
	}
}

// Branch represents a delivery branch office.
type Branch struct {
	Resource

	Name     string `json:"name"               yaml:"name"`
	Address  string `json:"address"            yaml:"address"`
	City     string `json:"city"               yaml:"city"`
	Phone    string `json:"phone,omitempty"    yaml:"phone,omitempty"`
	Archived bool   `json:"archived"           yaml:"archived"`
}

// BranchCreateRequest represents a request to create a branch.
type BranchCreateRequest struct {
	Name    string `json:"name"            yaml:"name"`
	Address string `json:"address"         yaml:"address"`
	City    string `json:"city"            yaml:"city"`
	Phone   string `json:"phone,omitempty" yaml:"phone,omitempty"`
}

// BranchUpdateRequest represents a request to update a branch. Nil fields
// are left unchanged.
type BranchUpdateRequest struct {
	Name    *string `json:"name,omitempty"    yaml:"name,omitempty"`
	Address *string `json:"address,omitempty" yaml:"address,omitempty"`
	City    *string `json:"city,omitempty"    yaml:"city,omitempty"`
	Phone   *string `json:"phone,omitempty"   yaml:"phone,omitempty"`
}

// BranchSearchRequest filters branch search reads.
type BranchSearchRequest struct {
	Query    string `json:"query,omitempty"    yaml:"query,omitempty"`
	City     string `json:"city,omitempty"     yaml:"city,omitempty"`
	Archived *bool  `json:"archived,omitempty" yaml:"archived,omitempty"`
}

// Dispatcher represents a delivery dispatcher assigned to a branch.
type Dispatcher struct {
	Resource

	FirstName   string `json:"firstName"          yaml:"firstName"`
	LastName    string `json:"lastName"           yaml:"lastName"`
	Email       string `json:"email"              yaml:"email"`
	PhoneNumber string `json:"phoneNumber"        yaml:"phoneNumber"`
	BranchID    string `json:"branchId,omitempty" yaml:"branchId,omitempty"`
}

// DispatcherCreateRequest represents a request to create a dispatcher.
type DispatcherCreateRequest struct {
	FirstName   string `json:"firstName"          yaml:"firstName"`
	LastName    string `json:"lastName"           yaml:"lastName"`
	Email       string `json:"email"              yaml:"email"`
	PhoneNumber string `json:"phoneNumber"        yaml:"phoneNumber"`
	BranchID    string `json:"branchId,omitempty" yaml:"branchId,omitempty"`
}

// DispatcherUpdateRequest represents a request to update a dispatcher.
type DispatcherUpdateRequest struct {
	FirstName   *string `json:"firstName,omitempty"   yaml:"firstName,omitempty"`
	LastName    *string `json:"lastName,omitempty"    yaml:"lastName,omitempty"`
	Email       *string `json:"email,omitempty"       yaml:"email,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty" yaml:"phoneNumber,omitempty"`
	BranchID    *string `json:"branchId,omitempty"    yaml:"branchId,omitempty"`
}

// DispatcherSearchRequest filters dispatcher search reads.
type DispatcherSearchRequest struct {
	Query    string `json:"query,omitempty"    yaml:"query,omitempty"`
	BranchID string `json:"branchId,omitempty" yaml:"branchId,omitempty"`
}

// Customer represents a customer of the delivery service.
type Customer struct {
	Resource

	FirstName   string `json:"firstName"         yaml:"firstName"`
	LastName    string `json:"lastName"          yaml:"lastName"`
	PhoneNumber string `json:"phoneNumber"       yaml:"phoneNumber"`
	Email       string `json:"email,omitempty"   yaml:"email,omitempty"`
	Address     string `json:"address,omitempty" yaml:"address,omitempty"`
}

// CustomerUpdateRequest represents a request to update a customer.
type CustomerUpdateRequest struct {
	FirstName *string `json:"firstName,omitempty" yaml:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"  yaml:"lastName,omitempty"`
	Email     *string `json:"email,omitempty"     yaml:"email,omitempty"`
	Address   *string `json:"address,omitempty"   yaml:"address,omitempty"`
}

// CustomerSearchRequest filters customer search reads.
type CustomerSearchRequest struct {
	Query       string `json:"query,omitempty"       yaml:"query,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty" yaml:"phoneNumber,omitempty"`
}

// Parcel represents a parcel in the delivery system.
type Parcel struct {
	Resource

	TrackingNumber      string       `json:"trackingNumber"                yaml:"trackingNumber"`
	SenderID            string       `json:"senderId"                      yaml:"senderId"`
	RecipientID         string       `json:"recipientId,omitempty"         yaml:"recipientId,omitempty"`
	RecipientName       string       `json:"recipientName"                 yaml:"recipientName"`
	RecipientPhone      string       `json:"recipientPhone"                yaml:"recipientPhone"`
	OriginBranchID      string       `json:"originBranchId"                yaml:"originBranchId"`
	DestinationBranchID string       `json:"destinationBranchId"           yaml:"destinationBranchId"`
	WeightKg            float64      `json:"weightKg"                      yaml:"weightKg"`
	Cost                float64      `json:"cost"                          yaml:"cost"`
	Status              ParcelStatus `json:"status"                        yaml:"status"`
	Notes               string       `json:"notes,omitempty"               yaml:"notes,omitempty"`
}

// ParcelCreateRequest represents a request to register a parcel.
type ParcelCreateRequest struct {
	SenderID            string  `json:"senderId"              yaml:"senderId"`
	RecipientID         string  `json:"recipientId,omitempty" yaml:"recipientId,omitempty"`
	RecipientName       string  `json:"recipientName"         yaml:"recipientName"`
	RecipientPhone      string  `json:"recipientPhone"        yaml:"recipientPhone"`
	OriginBranchID      string  `json:"originBranchId"        yaml:"originBranchId"`
	DestinationBranchID string  `json:"destinationBranchId"   yaml:"destinationBranchId"`
	WeightKg            float64 `json:"weightKg"              yaml:"weightKg"`
	Notes               string  `json:"notes,omitempty"       yaml:"notes,omitempty"`
}

// ParcelStatusUpdateRequest moves a parcel to a new status.
type ParcelStatusUpdateRequest struct {
	Status    ParcelStatus `json:"status"              yaml:"status"`
	Notes     string       `json:"notes,omitempty"     yaml:"notes,omitempty"`
	UpdatedBy string       `json:"updatedBy,omitempty" yaml:"updatedBy,omitempty"`
}

// ParcelSearchRequest filters parcel search reads.
type ParcelSearchRequest struct {
	Query          string       `json:"query,omitempty"          yaml:"query,omitempty"`
	TrackingNumber string       `json:"trackingNumber,omitempty" yaml:"trackingNumber,omitempty"`
	Status         ParcelStatus `json:"status,omitempty"         yaml:"status,omitempty"`
	BranchID       string       `json:"branchId,omitempty"       yaml:"branchId,omitempty"`
}

// TrackingEvent is one hop in a parcel's journey.
type TrackingEvent struct {
	Status     ParcelStatus `json:"status"             yaml:"status"`
	BranchID   string       `json:"branchId,omitempty" yaml:"branchId,omitempty"`
	Notes      string       `json:"notes,omitempty"    yaml:"notes,omitempty"`
	OccurredAt time.Time    `json:"occurredAt"         yaml:"occurredAt"`
}

// TrackingInfo is the public tracking view of a parcel.
type TrackingInfo struct {
	TrackingNumber string          `json:"trackingNumber" yaml:"trackingNumber"`
	Status         ParcelStatus    `json:"status"         yaml:"status"`
	Origin         string          `json:"origin"         yaml:"origin"`
	Destination    string          `json:"destination"    yaml:"destination"`
	Events         []TrackingEvent `json:"events"         yaml:"events"`
}

// UserRole is a system user's role.
type UserRole string

const (
	UserRoleAdmin      UserRole = "admin"
	UserRoleManager    UserRole = "manager"
	UserRoleDispatcher UserRole = "dispatcher"
)

// UserStatus is a system user's account status.
type UserStatus string

const (
	UserStatusActive      UserStatus = "active"
	UserStatusSuspended   UserStatus = "suspended"
	UserStatusDeactivated UserStatus = "deactivated"
)

// User represents a system (staff) user.
type User struct {
	Resource

	Email     string     `json:"email"              yaml:"email"`
	FirstName string     `json:"firstName"          yaml:"firstName"`
	LastName  string     `json:"lastName"           yaml:"lastName"`
	Role      UserRole   `json:"role"               yaml:"role"`
	Status    UserStatus `json:"status"             yaml:"status"`
	BranchID  string     `json:"branchId,omitempty" yaml:"branchId,omitempty"`
}

// UserCreateRequest represents a request to create a system user.
type UserCreateRequest struct {
	Email     string   `json:"email"              yaml:"email"`
	FirstName string   `json:"firstName"          yaml:"firstName"`
	LastName  string   `json:"lastName"           yaml:"lastName"`
	Role      UserRole `json:"role"               yaml:"role"`
	BranchID  string   `json:"branchId,omitempty" yaml:"branchId,omitempty"`
	Password  string   `json:"password"           yaml:"password"`
}

// UserUpdateRequest represents a request to update a system user.
type UserUpdateRequest struct {
	Email     *string   `json:"email,omitempty"     yaml:"email,omitempty"`
	FirstName *string   `json:"firstName,omitempty" yaml:"firstName,omitempty"`
	LastName  *string   `json:"lastName,omitempty"  yaml:"lastName,omitempty"`
	Role      *UserRole `json:"role,omitempty"      yaml:"role,omitempty"`
	BranchID  *string   `json:"branchId,omitempty"  yaml:"branchId,omitempty"`
}

// UserSearchRequest filters user search reads.
type UserSearchRequest struct {
	Query    string     `json:"query,omitempty"    yaml:"query,omitempty"`
	Role     UserRole   `json:"role,omitempty"     yaml:"role,omitempty"`
	Status   UserStatus `json:"status,omitempty"   yaml:"status,omitempty"`
	BranchID string     `json:"branchId,omitempty" yaml:"branchId,omitempty"`
}

// Configuration is the singleton delivery-cost configuration.
type Configuration struct {
	BaseFee             float64 `json:"baseFee"             yaml:"baseFee"`
	PerKilogramFee      float64 `json:"perKilogramFee"      yaml:"perKilogramFee"`
	PerKilometerFee     float64 `json:"perKilometerFee"     yaml:"perKilometerFee"`
	ExpressMultiplier   float64 `json:"expressMultiplier"   yaml:"expressMultiplier"`
	InsurancePercentage float64 `json:"insurancePercentage" yaml:"insurancePercentage"`
	Currency            string  `json:"currency"            yaml:"currency"`
}

// ParcelStatistics is the dashboard's aggregate parcel counters.
type ParcelStatistics struct {
	Total              int64 `json:"total"              yaml:"total"`
	Registered         int64 `json:"registered"         yaml:"registered"`
	InTransit          int64 `json:"inTransit"          yaml:"inTransit"`
	AvailableForPickup int64 `json:"availableForPickup" yaml:"availableForPickup"`
	Delivered          int64 `json:"delivered"          yaml:"delivered"`
	Returned           int64 `json:"returned"           yaml:"returned"`
}

// MonthlyParcelStats is one month's delivery volume.
type MonthlyParcelStats struct {
	Year      int   `json:"year"      yaml:"year"`
	Month     int   `json:"month"     yaml:"month"`
	Created   int64 `json:"created"   yaml:"created"`
	Delivered int64 `json:"delivered" yaml:"delivered"`
}

// RecentDelivery is a row in the dashboard's recent-deliveries widget.
type RecentDelivery struct {
	ParcelID       string    `json:"parcelId"       yaml:"parcelId"`
	TrackingNumber string    `json:"trackingNumber" yaml:"trackingNumber"`
	RecipientName  string    `json:"recipientName"  yaml:"recipientName"`
	Destination    string    `json:"destination"    yaml:"destination"`
	DeliveredAt    time.Time `json:"deliveredAt"    yaml:"deliveredAt"`
}

// LoginRequest is the email/password login payload.
type LoginRequest struct {
	Email    string `json:"email"    yaml:"email"`
	Password string `json:"password" yaml:"password"`
}

// InitiatePhoneLoginRequest asks the backend to send a one-time code.
type InitiatePhoneLoginRequest struct {
	PhoneNumber string `json:"phoneNumber" yaml:"phoneNumber"`
}

// PhoneLoginRequest completes a phone login with the received code.
type PhoneLoginRequest struct {
	PhoneNumber string `json:"phoneNumber" yaml:"phoneNumber"`
	Code        string `json:"code"        yaml:"code"`
}

// ProfileResponse is the shape returned by GET /auth/profile. Which identity
// field is populated decides the principal variant; see Session.
type ProfileResponse struct {
	ID            string     `json:"id"                      yaml:"id"`
	Email         string     `json:"email,omitempty"         yaml:"email,omitempty"`
	PhoneNumber   string     `json:"phoneNumber,omitempty"   yaml:"phoneNumber,omitempty"`
	FirstName     string     `json:"firstName,omitempty"     yaml:"firstName,omitempty"`
	LastName      string     `json:"lastName,omitempty"      yaml:"lastName,omitempty"`
	Role          UserRole   `json:"role,omitempty"          yaml:"role,omitempty"`
	Status        UserStatus `json:"status,omitempty"        yaml:"status,omitempty"`
	BranchID      string     `json:"branchId,omitempty"      yaml:"branchId,omitempty"`
	PasswordReset *PasswordResetMarker `json:"passwordReset,omitempty" yaml:"passwordReset,omitempty"`
}
