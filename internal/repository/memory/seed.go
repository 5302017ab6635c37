package memory

import (
	"time"

	"github.com/mamadbah2/herdadvisor/internal/domain/models"
)

// Catalogue identifiers used by Seed.
const (
	CattleID  int64 = 1
	GoatsID   int64 = 2
	SheepID   int64 = 3
	PoultryID int64 = 4
)

func f64(v float64) *float64 { return &v }
func i64(v int64) *int64     { return &v }
func intp(v int) *int        { return &v }

type seedFeed struct {
	name, category        string
	protein, energy, cost float64
	suitable              []int64
}

var seedFeeds = []seedFeed{
	{"Alfalfa Hay", "HAY", 18.0, 8.5, 0.25, []int64{CattleID, GoatsID, SheepID}},
	{"Timothy Hay", "HAY", 12.0, 7.8, 0.20, []int64{CattleID, GoatsID, SheepID}},
	{"Grass Hay", "HAY", 10.0, 7.2, 0.18, []int64{CattleID, GoatsID, SheepID}},
	{"Corn", "GRAIN", 9.0, 14.2, 0.15, []int64{CattleID, GoatsID, SheepID, PoultryID}},
	{"Barley", "GRAIN", 12.0, 13.8, 0.18, []int64{CattleID, GoatsID, SheepID, PoultryID}},
	{"Wheat", "GRAIN", 14.0, 13.5, 0.22, []int64{CattleID, GoatsID, SheepID, PoultryID}},
	{"Cattle Pellets", "PELLETS", 16.0, 11.5, 0.35, []int64{CattleID}},
	{"Goat Pellets", "PELLETS", 14.0, 10.8, 0.40, []int64{GoatsID}},
	{"Sheep Pellets", "PELLETS", 13.0, 10.5, 0.38, []int64{SheepID}},
	{"Poultry Feed", "PELLETS", 18.0, 12.2, 0.45, []int64{PoultryID}},
	{"Fresh Pasture", "PASTURE", 15.0, 9.5, 0.05, []int64{CattleID, GoatsID, SheepID}},
	{"Mineral Mix", "SUPPLEMENT", 0.0, 0.0, 1.20, []int64{CattleID, GoatsID, SheepID}},
	{"Vitamin Supplement", "SUPPLEMENT", 0.0, 0.0, 2.50, []int64{CattleID, GoatsID, SheepID, PoultryID}},
}

// feed ids follow seedFeeds order starting at 1
const (
	feedAlfalfa       int64 = 1
	feedCattlePellets int64 = 7
	feedGoatPellets   int64 = 8
	feedSheepPellets  int64 = 9
	feedPoultry       int64 = 10
	feedPasture       int64 = 11
)

// Seed loads the reference catalogue, a 30-day price history ending at now
// and a small demo herd for farmer 1.
func Seed(s *Store, now time.Time) error {
	s.PutAnimalType(models.AnimalType{ID: CattleID, Name: "Cattle", Kind: models.KindCattle, Description: "Domesticated bovine animals raised for meat, milk, and other dairy products"})
	s.PutAnimalType(models.AnimalType{ID: GoatsID, Name: "Goats", Kind: models.KindGoat, Description: "Small ruminants raised for meat, milk, and fiber"})
	s.PutAnimalType(models.AnimalType{ID: SheepID, Name: "Sheep", Kind: models.KindSheep, Description: "Woolly ruminants raised for meat, wool, and milk"})
	s.PutAnimalType(models.AnimalType{ID: PoultryID, Name: "Poultry", Kind: models.KindPoultry, Description: "Domesticated birds raised for eggs, meat, and feathers"})

	breeds := []models.Breed{
		{ID: 1, AnimalTypeID: CattleID, Name: "Holstein", AverageWeightKg: 650, MaturityMonths: 24},
		{ID: 2, AnimalTypeID: CattleID, Name: "Angus", AverageWeightKg: 550, MaturityMonths: 20},
		{ID: 3, AnimalTypeID: GoatsID, Name: "Boer", AverageWeightKg: 70, MaturityMonths: 8},
		{ID: 4, AnimalTypeID: GoatsID, Name: "Saanen", AverageWeightKg: 60, MaturityMonths: 9},
		{ID: 5, AnimalTypeID: SheepID, Name: "Dorper", AverageWeightKg: 80, MaturityMonths: 8},
		{ID: 6, AnimalTypeID: SheepID, Name: "Merino", AverageWeightKg: 65, MaturityMonths: 9},
		{ID: 7, AnimalTypeID: PoultryID, Name: "Rhode Island Red", AverageWeightKg: 3, MaturityMonths: 5},
		{ID: 8, AnimalTypeID: PoultryID, Name: "Broiler", AverageWeightKg: 2.8, MaturityMonths: 2},
	}
	for _, b := range breeds {
		s.PutBreed(b)
	}

	for i, f := range seedFeeds {
		s.PutFeedType(models.FeedType{
			ID:            int64(i + 1),
			Name:          f.name,
			Category:      f.category,
			ProteinPct:    f64(f.protein),
			EnergyMJPerKg: f64(f.energy),
			CostPerKg:     f64(f.cost),
			SuitableFor:   f.suitable,
		})
	}

	rules := []models.FeedingRule{
		{ID: 1, AnimalTypeID: CattleID, FeedTypeID: feedAlfalfa, MinAgeMonths: 0, MaxAgeMonths: intp(6), MinWeightKg: 0, MaxWeightKg: f64(150), Purpose: models.PurposeMilk, DailyAmountKg: 5.0, Frequency: 2},
		{ID: 2, AnimalTypeID: CattleID, FeedTypeID: feedCattlePellets, MinAgeMonths: 6, MaxAgeMonths: intp(24), MinWeightKg: 150, MaxWeightKg: f64(500), Purpose: models.PurposeMeat, DailyAmountKg: 8.0, Frequency: 2},
		{ID: 3, AnimalTypeID: CattleID, FeedTypeID: feedPasture, MinAgeMonths: 3, MinWeightKg: 100, DailyAmountKg: 25.0, Frequency: 1},
		{ID: 4, AnimalTypeID: GoatsID, FeedTypeID: feedAlfalfa, MinAgeMonths: 0, MaxAgeMonths: intp(12), MinWeightKg: 0, MaxWeightKg: f64(30), Purpose: models.PurposeMilk, DailyAmountKg: 1.5, Frequency: 2},
		{ID: 5, AnimalTypeID: GoatsID, FeedTypeID: feedGoatPellets, MinAgeMonths: 3, MinWeightKg: 15, Purpose: models.PurposeMeat, DailyAmountKg: 1.0, Frequency: 2},
		{ID: 6, AnimalTypeID: GoatsID, FeedTypeID: feedPasture, MinAgeMonths: 2, MinWeightKg: 10, DailyAmountKg: 3.0, Frequency: 1},
		{ID: 7, AnimalTypeID: SheepID, FeedTypeID: feedAlfalfa, MinAgeMonths: 0, MaxAgeMonths: intp(8), MinWeightKg: 0, MaxWeightKg: f64(40), Purpose: models.PurposeMeat, DailyAmountKg: 2.0, Frequency: 2},
		{ID: 8, AnimalTypeID: SheepID, FeedTypeID: feedSheepPellets, MinAgeMonths: 4, MinWeightKg: 20, Purpose: models.PurposeMeat, DailyAmountKg: 1.2, Frequency: 2},
		{ID: 9, AnimalTypeID: SheepID, FeedTypeID: feedPasture, MinAgeMonths: 2, MinWeightKg: 15, DailyAmountKg: 4.0, Frequency: 1},
		{ID: 10, AnimalTypeID: PoultryID, FeedTypeID: feedPoultry, MinAgeMonths: 0, MaxAgeMonths: intp(2), MinWeightKg: 0, MaxWeightKg: f64(1), Purpose: models.PurposeEggs, DailyAmountKg: 0.12, Frequency: 2},
		{ID: 11, AnimalTypeID: PoultryID, FeedTypeID: feedPoultry, MinAgeMonths: 2, MinWeightKg: 1, Purpose: models.PurposeMeat, DailyAmountKg: 0.15, Frequency: 3},
	}
	for _, r := range rules {
		if err := s.PutFeedingRule(r); err != nil {
			return err
		}
	}

	symptoms := []string{
		"Fever", "Loss of Appetite", "Lameness", "Blisters on mouth/feet",
		"Swollen udder", "Abnormal milk", "Respiratory distress", "Diarrhea",
		"Weight loss", "Pale mucous membranes", "Blood in droppings", "Sudden death",
	}
	for i, name := range symptoms {
		s.PutSymptom(models.Symptom{ID: int64(i + 1), Name: name})
	}

	ruminants := []int64{CattleID, GoatsID, SheepID}
	diseases := []models.Disease{
		{
			ID:              1,
			Name:            "Foot and Mouth Disease",
			Description:     "Highly contagious viral disease affecting cloven-hoofed animals",
			Severity:        models.SeverityCritical,
			Contagious:      true,
			VetRequired:     true,
			SymptomIDs:      []int64{1, 2, 3, 4},
			AffectedTypeIDs: ruminants,
			Prevention:      "Vaccination, quarantine new animals, proper sanitation",
			Treatment:       "Supportive care, isolation, veterinary supervision",
		},
		{
			ID:              2,
			Name:            "Mastitis",
			Description:     "Inflammation of the mammary gland, common in dairy animals",
			Severity:        models.SeverityMedium,
			Contagious:      false,
			VetRequired:     true,
			SymptomIDs:      []int64{5, 6},
			AffectedTypeIDs: ruminants,
			Prevention:      "Proper milking hygiene, dry cow treatment",
			Treatment:       "Antibiotics, anti-inflammatory drugs, improved hygiene",
		},
		{
			ID:              3,
			Name:            "Newcastle Disease",
			Description:     "Viral disease affecting poultry respiratory and nervous systems",
			Severity:        models.SeverityHigh,
			Contagious:      true,
			VetRequired:     true,
			SymptomIDs:      []int64{1, 2, 7, 12},
			AffectedTypeIDs: []int64{PoultryID},
			Prevention:      "Vaccination, biosecurity measures",
			Treatment:       "Supportive care, isolation of affected birds",
		},
		{
			ID:              4,
			Name:            "Parasitic Worms",
			Description:     "Internal parasites affecting digestive system",
			Severity:        models.SeverityMedium,
			Contagious:      false,
			VetRequired:     false,
			SymptomIDs:      []int64{2, 8, 9, 10},
			AffectedTypeIDs: ruminants,
			Prevention:      "Regular deworming, pasture rotation, fecal testing",
			Treatment:       "Anthelmintic medications, improved nutrition",
		},
		{
			ID:              5,
			Name:            "Coccidiosis",
			Description:     "Parasitic disease affecting the intestinal tract",
			Severity:        models.SeverityMedium,
			Contagious:      true,
			VetRequired:     false,
			SymptomIDs:      []int64{2, 8, 9, 11, 12},
			AffectedTypeIDs: []int64{PoultryID, GoatsID, SheepID},
			Prevention:      "Clean water, dry bedding, proper sanitation",
			Treatment:       "Anticoccidial drugs, supportive care",
		},
	}
	for _, d := range diseases {
		s.PutDisease(d)
	}

	seedPrices(s, now)
	seedHerd(s, now)
	return nil
}

var (
	seedBasePrices = map[int64]float64{CattleID: 4.50, GoatsID: 6.00, SheepID: 5.25, PoultryID: 8.50}
	seedMarkets    = []struct {
		name       string
		multiplier float64
	}{
		{"Local Market", 1.0},
		{"Regional Market", 1.05},
		{"Premium Market", 1.15},
	}
	// fixed spread in place of random variation so the demo data is reproducible
	seedVariation = []float64{0.92, 0.97, 1.01, 0.95, 1.04, 1.08}
)

func seedPrices(s *Store, now time.Time) {
	start := now.AddDate(0, 0, -30)
	id := int64(1)
	for _, typeID := range []int64{CattleID, GoatsID, SheepID, PoultryID} {
		base := seedBasePrices[typeID]
		for step, variation := range seedVariation {
			date := start.AddDate(0, 0, step*5)
			for _, market := range seedMarkets {
				price := float64(int(base*variation*market.multiplier*100+0.5)) / 100
				s.PutPrice(models.PriceRecord{
					ID:           id,
					AnimalTypeID: typeID,
					Location:     market.name,
					Date:         date,
					PricePerKg:   price,
					QualityGrade: models.QualityGood,
					Source:       "Sample Data",
				})
				id++
			}
		}
	}
}

func seedHerd(s *Store, now time.Time) {
	born := func(months int) *time.Time {
		t := now.AddDate(0, -months, 0)
		return &t
	}
	herd := []models.Livestock{
		{ID: 1, FarmerID: 1, AnimalTypeID: CattleID, BreedID: i64(1), TagNumber: "C001", Name: "Bella", DateOfBirth: born(30), WeightKg: f64(520), Purpose: models.PurposeMilk, Status: models.StatusHealthy, PurchasePrice: 1800},
		{ID: 2, FarmerID: 1, AnimalTypeID: CattleID, BreedID: i64(2), TagNumber: "C002", DateOfBirth: born(14), WeightKg: f64(310), Purpose: models.PurposeMeat, Status: models.StatusHealthy, PurchasePrice: 1200},
		{ID: 3, FarmerID: 1, AnimalTypeID: GoatsID, BreedID: i64(3), TagNumber: "G001", Name: "Nala", DateOfBirth: born(10), WeightKg: f64(45), Purpose: models.PurposeMeat, Status: models.StatusHealthy, PurchasePrice: 150},
		{ID: 4, FarmerID: 1, AnimalTypeID: PoultryID, TagNumber: "P001", DateOfBirth: born(4), WeightKg: f64(2.6), Purpose: models.PurposeEggs, Status: models.StatusSick, PurchasePrice: 8},
	}
	for _, l := range herd {
		s.PutLivestock(l)
	}
	costs := []models.CostEntry{
		{ID: 1, LivestockID: 1, Category: models.CostFeed, Amount: 350, Date: now.AddDate(0, -2, 0)},
		{ID: 2, LivestockID: 1, Category: models.CostVeterinary, Amount: 90, Date: now.AddDate(0, -1, 0)},
		{ID: 3, LivestockID: 2, Category: models.CostFeed, Amount: 280, Date: now.AddDate(0, -1, 0)},
		{ID: 4, LivestockID: 3, Category: models.CostMedicine, Amount: 25, Date: now.AddDate(0, 0, -10)},
	}
	for _, c := range costs {
		s.PutCost(c)
	}
}
