package models

import "time"

const (
	AppointmentStatusPending   = "pending"
	AppointmentStatusConfirmed = "confirmed"
	AppointmentStatusCompleted = "completed"
	AppointmentStatusCancelled = "cancelled"
)

type Service struct {
	ID          int       `bson:"_id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description" json:"description"`
	Price       int       `bson:"price" json:"price"`
	Duration    int       `bson:"duration" json:"duration"`
	Category    string    `bson:"category" json:"category"`
	ImageURL    string    `bson:"image_url" json:"image_url"`
	Slug        string    `bson:"slug" json:"slug"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

type Appointment struct {
	ID              string    `bson:"_id,omitempty" json:"id"`
	ClientID        string    `bson:"client_id" json:"client_id,omitempty"`
	ServiceID       int       `bson:"service_id" json:"service_id"`
	AppointmentDate time.Time `bson:"appointment_date" json:"appointment_date"`
	Status          string    `bson:"status" json:"status"`
	ClientName      string    `bson:"client_name" json:"client_name"`
	ClientEmail     string    `bson:"client_email" json:"client_email"`
	ClientPhone     string    `bson:"client_phone" json:"client_phone"`
	Notes           string    `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
}

type User struct {
	ID           string    `bson:"_id" json:"id"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	FullName     string    `bson:"full_name,omitempty" json:"full_name,omitempty"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

// Profile is keyed by the owning user's id.
type Profile struct {
	ID          string    `bson:"_id" json:"id"`
	FullName    string    `bson:"full_name" json:"full_name"`
	Phone       string    `bson:"phone" json:"phone"`
	Preferences string    `bson:"preferences,omitempty" json:"preferences,omitempty"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

type ContactMessage struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Phone     string    `bson:"phone" json:"phone"`
	Subject   string    `bson:"subject" json:"subject"`
	Message   string    `bson:"message" json:"message"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

type ServiceReview struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	ServiceID int       `bson:"service_id" json:"service_id"`
	Name      string    `bson:"name" json:"name"`
	Rating    int       `bson:"rating" json:"rating"`
	Message   string    `bson:"message" json:"message"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
