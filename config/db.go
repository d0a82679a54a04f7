package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"hotel-calendar/models"

	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "hotel_calendar")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return err
	}
	DB = db

	if err := DB.AutoMigrate(
		&models.RoomType{},
		&models.Room{},
		&models.Reservation{},
	); err != nil {
		return err
	}

	SeedDatabase()
	return nil
}

// SeedDatabase fills empty tables with the demo hotel: three room types,
// eight rooms and ten reservations spread around today.
func SeedDatabase() {
	// ---------------- RoomTypes ----------------
	var rtCount int64
	DB.Model(&models.RoomType{}).Count(&rtCount)

	if rtCount == 0 {
		roomTypes := []models.RoomType{
			{TypeName: "Estándar", Description: "Habitación estándar", MaxGuests: 2},
			{TypeName: "Deluxe", Description: "Habitación deluxe", MaxGuests: 3},
			{TypeName: "Suite", Description: "Suite", MaxGuests: 4},
		}
		DB.Create(&roomTypes)
		log.Println("RoomTypes seeded")
	}

	typeIDByName := map[string]*uint{}
	var roomTypes []models.RoomType
	DB.Find(&roomTypes)
	for i := range roomTypes {
		typeIDByName[roomTypes[i].TypeName] = &roomTypes[i].ID
	}

	// ---------------- Rooms ----------------
	var roomCount int64
	DB.Model(&models.Room{}).Count(&roomCount)

	if roomCount == 0 {
		rooms := []models.Room{
			{RoomKey: "A", Name: "Habitación 101", RoomTypeID: typeIDByName["Estándar"]},
			{RoomKey: "B", Name: "Habitación 102", RoomTypeID: typeIDByName["Estándar"]},
			{RoomKey: "C", Name: "Habitación 103", RoomTypeID: typeIDByName["Estándar"]},
			{RoomKey: "D", Name: "Habitación 201", RoomTypeID: typeIDByName["Deluxe"]},
			{RoomKey: "E", Name: "Habitación 202", RoomTypeID: typeIDByName["Deluxe"]},
			{RoomKey: "F", Name: "Habitación 203", RoomTypeID: typeIDByName["Deluxe"]},
			{RoomKey: "G", Name: "Habitación 301", RoomTypeID: typeIDByName["Suite"]},
			{RoomKey: "H", Name: "Habitación 302", RoomTypeID: typeIDByName["Suite"]},
		}
		DB.Create(&rooms)
		log.Println("Rooms seeded")
	}

	// ---------------- Reservations ----------------
	var resCount int64
	DB.Model(&models.Reservation{}).Count(&resCount)
	if resCount > 0 {
		return
	}

	roomIDByKey := map[string]*uint{}
	var rooms []models.Room
	DB.Find(&rooms)
	for i := range rooms {
		roomIDByKey[rooms[i].RoomKey] = &rooms[i].ID
	}

	now := time.Now()
	day := func(offset int) *time.Time {
		t := time.Date(now.Year(), now.Month(), now.Day(), 15, 0, 0, 0, now.Location()).AddDate(0, 0, offset)
		return &t
	}

	seed := []models.Reservation{
		{RoomID: roomIDByKey["A"], GuestName: "Juan Pérez", Status: "occupied", CheckIn: day(-3), CheckOut: day(-2),
			Phone: "+34 600 123 456", Email: "juan.perez@email.com", Notes: "Cliente VIP, prefiere habitación con vista al mar",
			Extras: datatypes.JSON([]byte(`{"vip":true}`))},
		{RoomID: roomIDByKey["B"], GuestName: "María García", Status: "dirty", CheckIn: day(-1), CheckOut: day(0),
			Phone: "+34 611 234 567", Email: "maria.garcia@email.com", Notes: "Necesita cuna para bebé"},
		{RoomID: roomIDByKey["C"], GuestName: "Carlos López", Status: "maintenance", CheckIn: day(0), CheckOut: day(2),
			Phone: "+34 622 345 678", Email: "carlos.lopez@email.com", Notes: "Viaje de negocios, llegada tardía"},
		{RoomID: roomIDByKey["D"], GuestName: "Ana Martín", Status: "vacant", CheckIn: day(1), CheckOut: day(3),
			Phone: "+34 633 456 789", Email: "ana.martin@email.com", Notes: "Luna de miel, decoración especial"},
		{RoomID: roomIDByKey["E"], GuestName: "Pedro Ruiz", Status: "clean", CheckIn: day(2), CheckOut: day(5),
			Phone: "+34 644 567 890", Email: "pedro.ruiz@email.com", Notes: "Estancia larga, descuento aplicado"},
		{RoomID: roomIDByKey["F"], GuestName: "Laura Sánchez", Status: "clean", CheckIn: day(3), CheckOut: day(4),
			Phone: "+34 655 678 901", Email: "laura.sanchez@email.com", Notes: "Alérgica a plumas, almohadas sintéticas"},
		{RoomID: roomIDByKey["G"], GuestName: "Roberto Torres", Status: "occupied", CheckIn: day(-2), CheckOut: day(1),
			Phone: "+34 666 789 012", Email: "roberto.torres@email.com", Notes: "Familia con 2 niños, necesita cama supletoria"},
		{RoomID: roomIDByKey["H"], GuestName: "Isabel Moreno", Status: "vacant", CheckIn: day(4), CheckOut: day(7),
			Phone: "+34 677 890 123", Email: "isabel.moreno@email.com", Notes: "Conferencia empresarial, facturación a empresa"},
		{RoomID: roomIDByKey["A"], GuestName: "Miguel Fernández", Status: "clean", CheckIn: day(6), CheckOut: day(8),
			Phone: "+34 688 901 234", Email: "miguel.fernandez@email.com", Notes: "Cliente frecuente, descuento fidelidad"},
		{RoomID: roomIDByKey["B"], GuestName: "Carmen Jiménez", Status: "occupied", CheckIn: day(8), CheckOut: day(12),
			Phone: "+34 699 012 345", Email: "carmen.jimenez@email.com", Notes: "Vacaciones familiares, piscina infantil"},
	}

	if err := DB.Create(&seed).Error; err != nil {
		log.Printf("warning: failed to seed reservations: %v", err)
		return
	}
	log.Println("Reservations seeded")
}
