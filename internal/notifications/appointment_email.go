package notifications

import (
	"bytes"
	"html/template"

	"github.com/kashtn/nail-studio/internal/models"
)

const appointmentConfirmationTemplate = `<!DOCTYPE html>
<html>
<body>
  <p>Здравствуйте, {{.Name}}!</p>
  <p>Ваша запись принята. Детали:</p>
  <ul>
    <li>Услуга: {{.ServiceName}}</li>
    <li>Дата: {{.Date}}</li>
    <li>Время: {{.Time}}</li>
    <li>Длительность: {{.DurationMinutes}} минут</li>
    <li>Стоимость: {{.Price}} BYN</li>
    <li>Номер записи: {{.AppointmentID}}</li>
  </ul>
  <p>Мы свяжемся с вами для подтверждения. Если планы изменятся, запись можно
  отменить в личном кабинете или по телефону салона.</p>
  <p>До встречи!</p>
</body>
</html>`

var appointmentConfirmationTmpl = template.Must(template.New("appointment_confirmation").Parse(appointmentConfirmationTemplate))

type appointmentConfirmationData struct {
	Name            string
	ServiceName     string
	Date            string
	Time            string
	DurationMinutes int
	Price           int
	AppointmentID   string
}

func buildAppointmentConfirmationHTML(appointment models.Appointment, service models.Service) (string, error) {
	when := appointment.AppointmentDate
	data := appointmentConfirmationData{
		Name:            appointment.ClientName,
		ServiceName:     service.Name,
		Date:            when.Format("02.01.2006"),
		Time:            when.Format("15:04"),
		DurationMinutes: service.Duration,
		Price:           service.Price,
		AppointmentID:   appointment.ID,
	}
	var buf bytes.Buffer
	if err := appointmentConfirmationTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
