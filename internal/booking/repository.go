package booking

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kashtn/nail-studio/internal/models"
)

// Catalog resolves service ids against the service catalog.
type Catalog interface {
	ServiceByID(ctx context.Context, id int) (models.Service, error)
}

// AppointmentWriter persists appointments and answers which slots of a date
// are already taken.
type AppointmentWriter interface {
	BookedTimes(ctx context.Context, date string) (map[string]bool, error)
	Insert(ctx context.Context, appointment models.Appointment) error
}

type MongoRepository struct {
	services     *mongo.Collection
	appointments *mongo.Collection
	loc          *time.Location
}

func NewMongoRepository(services, appointments *mongo.Collection, loc *time.Location) *MongoRepository {
	return &MongoRepository{services: services, appointments: appointments, loc: loc}
}

func (r *MongoRepository) ServiceByID(ctx context.Context, id int) (models.Service, error) {
	var service models.Service
	if err := r.services.FindOne(ctx, bson.M{"_id": id}).Decode(&service); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Service{}, ErrServiceNotFound
		}
		return models.Service{}, err
	}
	return service, nil
}

// BookedTimes returns the "HH:MM" labels taken on a date. Cancelled
// appointments free their slot.
func (r *MongoRepository) BookedTimes(ctx context.Context, date string) (map[string]bool, error) {
	dayStart, err := time.ParseInLocation("2006-01-02", date, r.loc)
	if err != nil {
		return nil, err
	}
	dayEnd := dayStart.AddDate(0, 0, 1)

	cursor, err := r.appointments.Find(ctx, bson.M{
		"appointment_date": bson.M{"$gte": dayStart, "$lt": dayEnd},
		"status":           bson.M{"$ne": models.AppointmentStatusCancelled},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	booked := make(map[string]bool)
	for cursor.Next(ctx) {
		var appt models.Appointment
		if err := cursor.Decode(&appt); err != nil {
			continue
		}
		booked[appt.AppointmentDate.In(r.loc).Format("15:04")] = true
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return booked, nil
}

func (r *MongoRepository) Insert(ctx context.Context, appointment models.Appointment) error {
	_, err := r.appointments.InsertOne(ctx, appointment)
	if err != nil && mongo.IsDuplicateKeyError(err) {
		return ErrSlotUnavailable
	}
	return err
}
