package catalog

import (
	"time"

	"github.com/kashtn/nail-studio/internal/models"
)

// DefaultServices is the bundled catalog used when Mongo is unreachable, so
// browsing and booking keep working. The seeder loads the same list.
func DefaultServices(now time.Time) []models.Service {
	return []models.Service{
		{
			ID:          1,
			Name:        "Классический маникюр",
			Description: "Традиционный маникюр с приданием формы ногтям, уходом за кутикулой, массажем рук и покрытием по вашему выбору.",
			Price:       25,
			Duration:    30,
			Category:    "Маникюр",
			ImageURL:    "https://images.pexels.com/photos/704815/pexels-photo-704815.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=2",
			Slug:        "klassicheskij-manikyur",
			CreatedAt:   now,
		},
		{
			ID:          2,
			Name:        "Гель-лак",
			Description: "Долговременное покрытие гель-лаком, которое защищает ваши натуральные ногти и обеспечивает великолепный цвет без сколов на несколько недель.",
			Price:       40,
			Duration:    45,
			Category:    "Маникюр",
			ImageURL:    "https://images.pexels.com/photos/939836/pexels-photo-939836.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=2",
			Slug:        "gel-lak",
			CreatedAt:   now,
		},
		{
			ID:          3,
			Name:        "Люкс педикюр",
			Description: "Побалуйте себя люкс педикюром с пилингом, удалением мозолей, расширенным массажем и идеальным покрытием.",
			Price:       55,
			Duration:    60,
			Category:    "Педикюр",
			ImageURL:    "https://images.pexels.com/photos/3997385/pexels-photo-3997385.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=2",
			Slug:        "lyuks-pedikyur",
			CreatedAt:   now,
		},
		{
			ID:          4,
			Name:        "Наращивание гелем",
			Description: "Потрясающее наращивание гелем, которое обеспечивает прочность, длину и идеальную основу для дизайна ногтей.",
			Price:       70,
			Duration:    90,
			Category:    "Наращивание",
			ImageURL:    "https://images.pexels.com/photos/3997391/pexels-photo-3997391.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=2",
			Slug:        "narashchivanie-gelem",
			CreatedAt:   now,
		},
		{
			ID:          5,
			Name:        "Индивидуальный дизайн",
			Description: "Выразите свой личный стиль с помощью индивидуальных ручных рисунков, блесток, страз или 3D-элементов.",
			Price:       20,
			Duration:    30,
			Category:    "Дизайн",
			ImageURL:    "https://images.pexels.com/photos/704815/pexels-photo-704815.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=2",
			Slug:        "individualnyj-dizajn",
			CreatedAt:   now,
		},
		{
			ID:          6,
			Name:        "Парафинотерапия",
			Description: "Успокаивающая и увлажняющая процедура для сухих рук с использованием теплого парафина, которая делает кожу мягкой и омоложенной.",
			Price:       25,
			Duration:    20,
			Category:    "Спа",
			ImageURL:    "https://images.pexels.com/photos/3997304/pexels-photo-3997304.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=2",
			Slug:        "parafinoterapiya",
			CreatedAt:   now,
		},
	}
}

// FindByID looks a service up in a static list.
func FindByID(services []models.Service, id int) (models.Service, bool) {
	for _, s := range services {
		if s.ID == id {
			return s, true
		}
	}
	return models.Service{}, false
}
