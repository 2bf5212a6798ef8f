package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/playperu/geoquiz/internal/geoquiz"
)

const (
	DemoGroupID = "demo"
	DemoAdminID = "demo-admin"
	DemoUserID  = "demo-player"
)

// SeedStore is the write side needed to fill an empty database.
type SeedStore interface {
	CountLocations(ctx context.Context) (int, error)
	AddLocation(ctx context.Context, l *geoquiz.Location) error
	AddMember(ctx context.Context, groupID, userID string, role geoquiz.MemberRole) error
}

type seedPlace struct {
	id    string
	name  string
	names map[string]string
	x, y  float64 // lng/lat for maps, pixels for images
}

var demoPools = []struct {
	pool   geoquiz.Pool
	places []seedPlace
}{
	{
		pool: geoquiz.Pool{Source: geoquiz.SourceCountry, Key: "switzerland"},
		places: []seedPlace{
			{"bern", "Bern", nil, 7.4474, 46.9480},
			{"zurich", "Zürich", map[string]string{"fr": "Zurich"}, 8.5417, 47.3769},
			{"geneva", "Genève", map[string]string{"de": "Genf"}, 6.1432, 46.2044},
			{"basel", "Basel", map[string]string{"fr": "Bâle"}, 7.5886, 47.5596},
			{"lausanne", "Lausanne", nil, 6.6323, 46.5197},
			{"lucerne", "Luzern", map[string]string{"fr": "Lucerne"}, 8.3093, 47.0502},
			{"lugano", "Lugano", nil, 8.9511, 46.0037},
			{"st-gallen", "St. Gallen", nil, 9.3767, 47.4245},
			{"chur", "Chur", map[string]string{"it": "Coira"}, 9.5329, 46.8499},
			{"sion", "Sion", map[string]string{"de": "Sitten"}, 7.3606, 46.2331},
			{"thun", "Thun", nil, 7.6280, 46.7580},
			{"schaffhausen", "Schaffhausen", nil, 8.6349, 47.6960},
		},
	},
	{
		pool: geoquiz.Pool{Source: geoquiz.SourceCountry, Key: "austria"},
		places: []seedPlace{
			{"vienna", "Wien", map[string]string{"en": "Vienna"}, 16.3738, 48.2082},
			{"graz", "Graz", nil, 15.4395, 47.0707},
			{"linz", "Linz", nil, 14.2858, 48.3069},
			{"salzburg", "Salzburg", nil, 13.0550, 47.8095},
			{"innsbruck", "Innsbruck", nil, 11.4041, 47.2692},
			{"klagenfurt", "Klagenfurt", nil, 14.3050, 46.6247},
			{"bregenz", "Bregenz", nil, 9.7471, 47.5031},
			{"st-poelten", "St. Pölten", nil, 15.6256, 48.2047},
			{"eisenstadt", "Eisenstadt", nil, 16.5245, 47.8457},
			{"villach", "Villach", nil, 13.8558, 46.6111},
		},
	},
	{
		pool: geoquiz.Pool{Source: geoquiz.SourceWorld, Key: "capitals"},
		places: []seedPlace{
			{"tokyo", "Tokyo", nil, 139.6503, 35.6762},
			{"lima", "Lima", nil, -77.0428, -12.0464},
			{"nairobi", "Nairobi", nil, 36.8219, -1.2921},
			{"canberra", "Canberra", nil, 149.1300, -35.2809},
			{"ottawa", "Ottawa", nil, -75.6972, 45.4215},
			{"oslo", "Oslo", nil, 10.7522, 59.9139},
			{"buenos-aires", "Buenos Aires", nil, -58.3816, -34.6037},
			{"cairo", "Cairo", map[string]string{"de": "Kairo"}, 31.2357, 30.0444},
			{"new-delhi", "New Delhi", map[string]string{"de": "Neu-Delhi"}, 77.2090, 28.6139},
			{"reykjavik", "Reykjavík", nil, -21.9426, 64.1466},
			{"wellington", "Wellington", nil, 174.7762, -41.2865},
			{"mexico-city", "Mexico City", map[string]string{"de": "Mexiko-Stadt"}, -99.1332, 19.4326},
		},
	},
	{
		pool: geoquiz.Pool{Source: geoquiz.SourceWorld, Key: "landmarks"},
		places: []seedPlace{
			{"eiffel-tower", "Eiffel Tower", map[string]string{"fr": "Tour Eiffel"}, 2.2945, 48.8584},
			{"machu-picchu", "Machu Picchu", nil, -72.5450, -13.1631},
			{"taj-mahal", "Taj Mahal", nil, 78.0421, 27.1751},
			{"statue-of-liberty", "Statue of Liberty", nil, -74.0445, 40.6892},
			{"sydney-opera", "Sydney Opera House", nil, 151.2153, -33.8568},
			{"great-pyramid", "Great Pyramid of Giza", nil, 31.1342, 29.9792},
			{"matterhorn", "Matterhorn", nil, 7.6586, 45.9763},
			{"christ-redeemer", "Christ the Redeemer", nil, -43.2105, -22.9519},
			{"angkor-wat", "Angkor Wat", nil, 103.8670, 13.4125},
			{"uluru", "Uluru", nil, 131.0369, -25.3444},
		},
	},
	{
		pool: geoquiz.Pool{Source: geoquiz.SourceImage, Key: "garten"},
		places: []seedPlace{
			{"rosenbeet", "Rosenbeet", map[string]string{"en": "Rose bed"}, 420, 310},
			{"teich", "Teich", map[string]string{"en": "Pond"}, 1210, 640},
			{"gewaechshaus", "Gewächshaus", map[string]string{"en": "Greenhouse"}, 1580, 220},
			{"apfelbaum", "Apfelbaum", map[string]string{"en": "Apple tree"}, 260, 1040},
			{"kraeuter", "Kräutergarten", map[string]string{"en": "Herb garden"}, 880, 1180},
			{"pavillon", "Pavillon", nil, 960, 520},
			{"kompost", "Kompost", map[string]string{"en": "Compost"}, 1720, 1290},
			{"brunnen", "Brunnen", map[string]string{"en": "Fountain"}, 640, 760},
		},
	},
}

// SeedDemo fills an empty database with demo locations and a demo group.
// It does nothing once any location exists.
func SeedDemo(ctx context.Context, logger *slog.Logger, s SeedStore) error {
	n, err := s.CountLocations(ctx)
	if err != nil {
		return fmt.Errorf("counting locations: %w", err)
	}
	if n > 0 {
		return nil
	}

	now := time.Now().UTC()
	total := 0
	for _, dp := range demoPools {
		for _, p := range dp.places {
			loc := geoquiz.Location{
				ID:        p.id,
				Pool:      dp.pool,
				Name:      p.name,
				Names:     p.names,
				Position:  geoquiz.Point{X: p.x, Y: p.y},
				CreatedAt: now,
			}
			if err := s.AddLocation(ctx, &loc); err != nil {
				return fmt.Errorf("seeding %s:%s: %w", dp.pool.Key, p.id, err)
			}
			total++
		}
	}

	if err := s.AddMember(ctx, DemoGroupID, DemoAdminID, geoquiz.RoleAdmin); err != nil {
		return fmt.Errorf("seeding demo admin: %w", err)
	}
	if err := s.AddMember(ctx, DemoGroupID, DemoUserID, geoquiz.RoleMember); err != nil {
		return fmt.Errorf("seeding demo player: %w", err)
	}

	logger.Info("demo data seeded", "locations", total, "group_id", DemoGroupID)
	return nil
}
