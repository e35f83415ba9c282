package seeder

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Additional-Code/gridlock/internal/database"
	"github.com/Additional-Code/gridlock/internal/entity"
	bidrepo "github.com/Additional-Code/gridlock/internal/repository/bid"
)

// DefaultPassword is the plaintext password of every seeded user.
const DefaultPassword = "password123"

const day = 24 * time.Hour

// Module provides the Seeder to Fx.
var Module = fx.Provide(New)

// Seeder performs database seeding for local/dev setups.
type Seeder struct {
	conns  *database.Connections
	logger *zap.Logger
	cost   int
	now    func() time.Time
}

// New constructs a Seeder backed by the primary database connection.
func New(conns *database.Connections, logger *zap.Logger) *Seeder {
	return &Seeder{
		conns:  conns,
		logger: logger,
		cost:   bcrypt.DefaultCost,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Result counts the rows written by a seed run.
type Result struct {
	Users    int
	Vehicles int
	Auctions int
	Bids     int
}

// Demo loads the sample marketplace: users, vehicles, auctions and bids with
// auction times relative to now. It does nothing when users already exist.
func (s *Seeder) Demo(ctx context.Context) (Result, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), s.cost)
	if err != nil {
		return Result{}, err
	}

	var res Result
	err = s.conns.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		existing, err := tx.NewSelect().Model((*entity.User)(nil)).Count(ctx)
		if err != nil {
			return err
		}
		if existing > 0 {
			s.logger.Info("database already seeded; skipping", zap.Int("users", existing))
			return nil
		}

		now := s.now()

		users := sampleUsers(string(hash), now)
		if err := insertEach(ctx, tx, users); err != nil {
			return err
		}

		vehicles := sampleVehicles(now)
		if err := insertEach(ctx, tx, vehicles); err != nil {
			return err
		}

		auctions := sampleAuctions(vehicles, now)
		if err := insertEach(ctx, tx, auctions); err != nil {
			return err
		}

		bids := sampleBids(auctions, users, now)
		if err := insertEach(ctx, tx, bids); err != nil {
			return err
		}
		for i := range bids {
			if err := bidrepo.StampReceipt(ctx, &tx, &bids[i]); err != nil {
				return err
			}
		}

		res = Result{Users: len(users), Vehicles: len(vehicles), Auctions: len(auctions), Bids: len(bids)}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	if res.Users > 0 {
		s.logger.Info("seeded demo data",
			zap.Int("users", res.Users),
			zap.Int("vehicles", res.Vehicles),
			zap.Int("auctions", res.Auctions),
			zap.Int("bids", res.Bids),
		)
	}
	return res, nil
}

// insertEach writes rows one at a time so generated IDs are set on every
// dialect, including those without RETURNING.
func insertEach[T any](ctx context.Context, tx bun.Tx, rows []T) error {
	for i := range rows {
		if _, err := tx.NewInsert().Model(&rows[i]).Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

func sampleUsers(hash string, now time.Time) []entity.User {
	users := []entity.User{
		{Username: "admin", Email: "admin@gridlocked.com", FirstName: "System", LastName: "Administrator", Phone: "+1-555-0001", Role: entity.RoleAdmin},
		{Username: "auctioneer1", Email: "auctioneer@gridlocked.com", FirstName: "John", LastName: "Auctioneer", Phone: "+1-555-0002", Role: entity.RoleAuctioneer},
		{Username: "bidder1", Email: "bidder1@example.com", FirstName: "Alice", LastName: "Johnson", Phone: "+1-555-0101", Role: entity.RoleBidder},
		{Username: "bidder2", Email: "bidder2@example.com", FirstName: "Bob", LastName: "Smith", Phone: "+1-555-0102", Role: entity.RoleBidder},
		{Username: "bidder3", Email: "bidder3@example.com", FirstName: "Carol", LastName: "Davis", Phone: "+1-555-0103", Role: entity.RoleBidder},
	}
	for i := range users {
		users[i].PasswordHash = hash
		users[i].CreatedAt = now.Add(time.Duration(i-len(users)) * time.Minute)
	}
	return users
}

type vehicleSample struct {
	make, model, condition, vin, color, transmission, fuel, engine, body, description string

	year, mileage              int
	starting, current, reserve int64
	status                     string
}

var vehicleSamples = []vehicleSample{
	{
		make:         "Toyota",
		model:        "Camry",
		year:         2020,
		mileage:      45000,
		condition:    "Excellent",
		vin:          "1HGBH41JXMN109186",
		color:        "Silver",
		transmission: "Automatic",
		fuel:         "Gasoline",
		engine:       "2.5L",
		body:         "Sedan",
		description:  "Well-maintained Toyota Camry with excellent service history. Features include backup camera, Bluetooth connectivity, and premium sound system.",
		starting:     18000,
		current:      22500,
		reserve:      20000,
		status:       entity.StatusActive,
	},
	{
		make:         "Honda",
		model:        "Civic",
		year:         2019,
		mileage:      32000,
		condition:    "Good",
		vin:          "2HGFC2F59KH123456",
		color:        "Blue",
		transmission: "Manual",
		fuel:         "Gasoline",
		engine:       "2.0L",
		body:         "Sedan",
		description:  "Sporty Honda Civic with manual transmission. Great fuel economy and reliable performance.",
		starting:     16000,
		current:      19800,
		reserve:      18000,
		status:       entity.StatusActive,
	},
	{
		make:         "Ford",
		model:        "F-150",
		year:         2021,
		mileage:      28000,
		condition:    "Excellent",
		vin:          "1FTFW1ET5MKE12345",
		color:        "Black",
		transmission: "Automatic",
		fuel:         "Gasoline",
		engine:       "3.5L",
		body:         "Pickup",
		description:  "Powerful Ford F-150 truck with towing package. Perfect for work or recreation.",
		starting:     32000,
		current:      38500,
		reserve:      35000,
		status:       entity.StatusEnded,
	},
	{
		make:         "BMW",
		model:        "3 Series",
		year:         2018,
		mileage:      55000,
		condition:    "Good",
		vin:          "WBA8E9G59JA123456",
		color:        "White",
		transmission: "Automatic",
		fuel:         "Gasoline",
		engine:       "2.0L",
		body:         "Sedan",
		description:  "Luxury BMW 3 Series with premium features including leather seats, navigation, and sunroof.",
		starting:     25000,
		current:      25000,
		reserve:      27000,
		status:       entity.StatusUpcoming,
	},
	{
		make:         "Mercedes",
		model:        "C-Class",
		year:         2019,
		mileage:      41000,
		condition:    "Excellent",
		vin:          "WDDWF4HB1KR123456",
		color:        "Gray",
		transmission: "Automatic",
		fuel:         "Gasoline",
		engine:       "2.0L",
		body:         "Sedan",
		description:  "Elegant Mercedes C-Class with luxury appointments and advanced safety features.",
		starting:     28000,
		current:      33200,
		reserve:      30000,
		status:       entity.StatusActive,
	},
	{
		make:         "Audi",
		model:        "A4",
		year:         2020,
		mileage:      35000,
		condition:    "Excellent",
		vin:          "WAUENAF40LN123456",
		color:        "Red",
		transmission: "Automatic",
		fuel:         "Gasoline",
		engine:       "2.0L",
		body:         "Sedan",
		description:  "Sophisticated Audi A4 with advanced technology and quattro all-wheel drive.",
		starting:     30000,
		current:      34500,
		reserve:      32000,
		status:       entity.StatusActive,
	},
	{
		make:         "Tesla",
		model:        "Model 3",
		year:         2021,
		mileage:      25000,
		condition:    "Excellent",
		vin:          "5YJ3E1EA1MF123456",
		color:        "White",
		transmission: "Automatic",
		fuel:         "Electric",
		engine:       "Electric Motor",
		body:         "Sedan",
		description:  "Tesla Model 3 with autopilot features and supercharging capability. Environmentally friendly and high-tech.",
		starting:     35000,
		current:      35000,
		reserve:      38000,
		status:       entity.StatusUpcoming,
	},
	{
		make:         "Chevrolet",
		model:        "Silverado",
		year:         2020,
		mileage:      42000,
		condition:    "Good",
		vin:          "1GCUYDED5LZ123456",
		color:        "Blue",
		transmission: "Automatic",
		fuel:         "Gasoline",
		engine:       "5.3L",
		body:         "Pickup",
		description:  "Reliable Chevrolet Silverado with heavy-duty capabilities and spacious cabin.",
		starting:     28000,
		current:      31500,
		reserve:      30000,
		status:       entity.StatusActive,
	},
}

func sampleVehicles(now time.Time) []entity.Vehicle {
	vehicles := make([]entity.Vehicle, 0, len(vehicleSamples))
	for i, v := range vehicleSamples {
		vehicles = append(vehicles, entity.Vehicle{
			Make:         v.make,
			Model:        v.model,
			Year:         v.year,
			Mileage:      v.mileage,
			Condition:    v.condition,
			VIN:          v.vin,
			Color:        v.color,
			Transmission: v.transmission,
			FuelType:     v.fuel,
			EngineSize:   v.engine,
			BodyType:     v.body,
			Doors:        4,
			Description:  v.description,
			StartingBid:  decimal.NewFromInt(v.starting),
			CurrentBid:   decimal.NewFromInt(v.current),
			ReservePrice: decimal.NewNullDecimal(decimal.NewFromInt(v.reserve)),
			Status:       v.status,
			CreatedAt:    now.Add(time.Duration(i-len(vehicleSamples)) * time.Minute),
			UpdatedAt:    now,
		})
	}
	return vehicles
}

type auctionSample struct {
	vehicle     int
	title       string
	description string
	start, end  time.Duration
	status      string
}

var auctionSamples = []auctionSample{
	{
		vehicle:     0,
		title:       "2020 Toyota Camry - Excellent Condition",
		description: "Don't miss this opportunity to own a reliable and well-maintained Toyota Camry.",
		start:       -2 * day,
		end:         2 * day,
		status:      entity.StatusActive,
	},
	{
		vehicle:     1,
		title:       "2019 Honda Civic - Manual Transmission",
		description: "Perfect for driving enthusiasts who appreciate manual transmission.",
		start:       -1 * day,
		end:         5 * day,
		status:      entity.StatusActive,
	},
	{
		vehicle:     2,
		title:       "2021 Ford F-150 - Heavy Duty Truck",
		description: "Powerful truck perfect for work and recreation. Auction has ended.",
		start:       -7 * day,
		end:         -1 * day,
		status:      entity.StatusEnded,
	},
	{
		vehicle:     4,
		title:       "2019 Mercedes C-Class - Luxury Sedan",
		description: "Experience luxury and performance in this elegant Mercedes-Benz.",
		start:       -3 * day,
		end:         3 * day,
		status:      entity.StatusActive,
	},
	{
		vehicle:     5,
		title:       "2020 Audi A4 - All-Wheel Drive",
		description: "Sophisticated German engineering with quattro all-wheel drive system.",
		start:       -1 * day,
		end:         4 * day,
		status:      entity.StatusActive,
	},
	{
		vehicle:     7,
		title:       "2020 Chevrolet Silverado - Work Ready",
		description: "Dependable truck ready for any job. Currently accepting bids.",
		start:       -2 * day,
		end:         6 * day,
		status:      entity.StatusActive,
	},
}

// auctions.current_bid mirrors the highest seeded bid, which matches the
// vehicle's current bid.
func sampleAuctions(vehicles []entity.Vehicle, now time.Time) []entity.Auction {
	auctions := make([]entity.Auction, 0, len(auctionSamples))
	for i, a := range auctionSamples {
		v := vehicles[a.vehicle]
		auctions = append(auctions, entity.Auction{
			VehicleID:   v.ID,
			Title:       a.title,
			Description: a.description,
			StartTime:   now.Add(a.start),
			EndTime:     now.Add(a.end),
			Status:      a.status,
			CurrentBid:  v.CurrentBid,
			CreatedAt:   now.Add(time.Duration(i-len(auctionSamples)) * time.Minute),
			UpdatedAt:   now,
		})
	}
	return auctions
}

type bidSample struct {
	auction, user int
	amount        int64
}

var bidSamples = []bidSample{
	{0, 2, 19000}, {0, 3, 20500}, {0, 4, 22500},
	{1, 2, 17000}, {1, 4, 18500}, {1, 3, 19800},
	{2, 3, 33000}, {2, 4, 36000}, {2, 2, 38500},
	{3, 2, 29000}, {3, 3, 31500}, {3, 4, 33200},
	{4, 3, 31000}, {4, 2, 33000}, {4, 4, 34500},
	{5, 2, 29000}, {5, 4, 31500},
}

func sampleBids(auctions []entity.Auction, users []entity.User, now time.Time) []entity.Bid {
	bids := make([]entity.Bid, 0, len(bidSamples))
	for i, b := range bidSamples {
		bids = append(bids, entity.Bid{
			AuctionID: auctions[b.auction].ID,
			UserID:    users[b.user].ID,
			Amount:    decimal.NewFromInt(b.amount),
			PlacedAt:  now.Add(time.Duration(i-len(bidSamples)) * time.Minute).Truncate(time.Microsecond),
		})
	}
	return bids
}
