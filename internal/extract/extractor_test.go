package extract

import (
	"reflect"
	"testing"

	"github.com/hyperestate/aqari/internal/lexicon"
)

func arExtractor(t *testing.T) *Extractor {
	t.Helper()
	table, err := lexicon.Load("ar")
	if err != nil {
		t.Fatal(err)
	}
	return New(table)
}

func enExtractor(t *testing.T) *Extractor {
	t.Helper()
	table, err := lexicon.Load("en")
	if err != nil {
		t.Fatal(err)
	}
	return New(table)
}

func TestExtract_typeFeatureCity(t *testing.T) {
	e := arExtractor(t)
	criteria, confidence := e.Extract("فيلا مع مسبح في الرياض")
	if criteria.Type == nil || *criteria.Type != "فيلا" {
		t.Errorf("type = %v, want فيلا", criteria.Type)
	}
	if criteria.City == nil || *criteria.City != "الرياض" {
		t.Errorf("city = %v, want الرياض", criteria.City)
	}
	if !reflect.DeepEqual(criteria.OptionalFeatures, []string{"مسبح"}) {
		t.Errorf("optional features = %v, want [مسبح]", criteria.OptionalFeatures)
	}
	if len(criteria.RequiredFeatures) != 0 {
		t.Errorf("sole feature mention should be optional, got required %v", criteria.RequiredFeatures)
	}
	if confidence != 0.75 {
		t.Errorf("confidence = %v, want 0.75", confidence)
	}
}

func TestExtract_typeVariants(t *testing.T) {
	e := arExtractor(t)
	tests := []struct {
		query string
		want  string
	}{
		{"ابحث عن فله", "فيلا"},
		{"فلة للبيع", "فيلا"},
		{"شقه صغيرة", "شقة"},
		{"دبلكس جديد", "دوبلكس"},
		{"قصر فخم", "قصر"},
	}
	for _, tt := range tests {
		criteria, _ := e.Extract(tt.query)
		if criteria.Type == nil || *criteria.Type != tt.want {
			t.Errorf("Extract(%q).Type = %v, want %q", tt.query, criteria.Type, tt.want)
		}
	}
}

func TestExtract_luxuryHomeIdiom(t *testing.T) {
	e := arExtractor(t)
	criteria, _ := e.Extract("ابغى بيوت فخمه في جده")
	if criteria.Type == nil || *criteria.Type != "فيلا" {
		t.Errorf("type = %v, want فيلا", criteria.Type)
	}
	if criteria.City == nil || *criteria.City != "جدة" {
		t.Errorf("city = %v, want canonical جدة", criteria.City)
	}
}

func TestExtract_districtsKeepTextOrder(t *testing.T) {
	e := arExtractor(t)
	criteria, _ := e.Extract("فيلا في حي النرجس او الياسمين")
	if !reflect.DeepEqual(criteria.Districts, []string{"النرجس", "الياسمين"}) {
		t.Errorf("districts = %v, want [النرجس الياسمين]", criteria.Districts)
	}
}

func TestExtract_districtGluedPreposition(t *testing.T) {
	e := arExtractor(t)
	criteria, _ := e.Extract("شقة بالنرجس")
	if !reflect.DeepEqual(criteria.Districts, []string{"النرجس"}) {
		t.Errorf("districts = %v, want [النرجس]", criteria.Districts)
	}
}

func TestExtract_conjoinedFeaturesRequired(t *testing.T) {
	e := arExtractor(t)
	criteria, _ := e.Extract("فيلا فيها مسبح وحديقة")
	if !reflect.DeepEqual(criteria.RequiredFeatures, []string{"مسبح", "حديقة"}) {
		t.Errorf("required = %v, want [مسبح حديقة]", criteria.RequiredFeatures)
	}
	if len(criteria.OptionalFeatures) != 0 {
		t.Errorf("optional = %v, want empty", criteria.OptionalFeatures)
	}
}

func TestExtract_disjoinedFeaturesOptional(t *testing.T) {
	e := arExtractor(t)
	criteria, _ := e.Extract("شقة فيها بلكونة او مسبح")
	if len(criteria.RequiredFeatures) != 0 {
		t.Errorf("required = %v, want empty", criteria.RequiredFeatures)
	}
	if !reflect.DeepEqual(criteria.OptionalFeatures, []string{"بلكونة", "مسبح"}) {
		t.Errorf("optional = %v, want [بلكونة مسبح]", criteria.OptionalFeatures)
	}
}

func TestExtract_synonymFeaturesDeduplicated(t *testing.T) {
	e := arExtractor(t)
	// Both surfaces canonicalize to مسبح; the criteria must carry it once.
	criteria, _ := e.Extract("فيلا فيها حمام سباحة يعني مسبح")
	total := len(criteria.RequiredFeatures) + len(criteria.OptionalFeatures)
	if total != 1 {
		t.Errorf("want a single canonical feature, got required=%v optional=%v",
			criteria.RequiredFeatures, criteria.OptionalFeatures)
	}
}

func TestExtract_poolSurfaceNotMisreadAsBathroom(t *testing.T) {
	e := arExtractor(t)
	criteria, _ := e.Extract("فيلا فيها حمام سباحة")
	if criteria.Bathrooms != nil {
		t.Errorf("bathrooms = %v, want nil; حمام سباحة is a pool", *criteria.Bathrooms)
	}
	features := append(criteria.RequiredFeatures, criteria.OptionalFeatures...)
	if !reflect.DeepEqual(features, []string{"مسبح"}) {
		t.Errorf("features = %v, want [مسبح]", features)
	}
}

func TestExtract_roomAndBathroomCounts(t *testing.T) {
	e := arExtractor(t)
	criteria, _ := e.Extract("شقة ٣ غرف وحمامين")
	if criteria.Rooms == nil || *criteria.Rooms != 3 {
		t.Errorf("rooms = %v, want 3", criteria.Rooms)
	}
	if criteria.Bathrooms == nil || *criteria.Bathrooms != 2 {
		t.Errorf("bathrooms = %v, want 2", criteria.Bathrooms)
	}
	if criteria.MinPrice != nil || criteria.MaxPrice != nil {
		t.Error("room count must not be read as a price")
	}
}

func TestExtract_dualRoomForm(t *testing.T) {
	e := arExtractor(t)
	criteria, _ := e.Extract("شقة غرفتين في الرياض")
	if criteria.Rooms == nil || *criteria.Rooms != 2 {
		t.Errorf("rooms = %v, want 2 from dual form", criteria.Rooms)
	}
}

func TestExtract_spelledOutRoomCount(t *testing.T) {
	e := arExtractor(t)
	criteria, _ := e.Extract("فيلا اربع غرف نوم")
	if criteria.Rooms == nil || *criteria.Rooms != 4 {
		t.Errorf("rooms = %v, want 4", criteria.Rooms)
	}
}

func TestExtract_maxPriceBareMillion(t *testing.T) {
	e := arExtractor(t)
	criteria, _ := e.Extract("شقة اقل من مليون")
	if criteria.MaxPrice == nil || *criteria.MaxPrice != 1_000_000 {
		t.Errorf("max price = %v, want 1000000", criteria.MaxPrice)
	}
	if criteria.MinPrice != nil {
		t.Errorf("min price = %v, want nil", *criteria.MinPrice)
	}
}

func TestExtract_minPrice(t *testing.T) {
	e := arExtractor(t)
	criteria, _ := e.Extract("فيلا فوق 2 مليون")
	if criteria.MinPrice == nil || *criteria.MinPrice != 2_000_000 {
		t.Errorf("min price = %v, want 2000000", criteria.MinPrice)
	}
	if criteria.MaxPrice != nil {
		t.Errorf("max price = %v, want nil", *criteria.MaxPrice)
	}
}

func TestExtract_budgetPhraseIsMax(t *testing.T) {
	e := arExtractor(t)
	criteria, _ := e.Extract("ميزانيتي ٥٠٠ الف")
	if criteria.MaxPrice == nil || *criteria.MaxPrice != 500_000 {
		t.Errorf("max price = %v, want 500000", criteria.MaxPrice)
	}
}

func TestExtract_priceWithHalf(t *testing.T) {
	e := arExtractor(t)
	criteria, _ := e.Extract("فيلا بسعر لا يتجاوز مليون ونص")
	if criteria.MaxPrice == nil || *criteria.MaxPrice != 1_500_000 {
		t.Errorf("max price = %v, want 1500000", criteria.MaxPrice)
	}
}

func TestExtract_numberWithoutUnitOrContextIgnored(t *testing.T) {
	e := arExtractor(t)
	criteria, _ := e.Extract("شقة رقم 42")
	if criteria.MinPrice != nil || criteria.MaxPrice != nil {
		t.Errorf("lone number should not set a price, got min=%v max=%v",
			criteria.MinPrice, criteria.MaxPrice)
	}
}

func TestExtract_closestDirectionPhraseWins(t *testing.T) {
	e := arExtractor(t)
	// "ما تطلع فوق" contains the min marker "فوق" but reads as a maximum.
	criteria, _ := e.Extract("فيلا ما تطلع فوق 2 مليون")
	if criteria.MaxPrice == nil || *criteria.MaxPrice != 2_000_000 {
		t.Errorf("max price = %v, want 2000000", criteria.MaxPrice)
	}
	if criteria.MinPrice != nil {
		t.Errorf("min price = %v, want nil", *criteria.MinPrice)
	}
}

func TestExtract_contradictoryBoundsLastWins(t *testing.T) {
	e := arExtractor(t)
	criteria, _ := e.Extract("فيلا فوق 2 مليون واقل من مليون")
	if criteria.MaxPrice == nil || *criteria.MaxPrice != 1_000_000 {
		t.Errorf("max price = %v, want 1000000", criteria.MaxPrice)
	}
	if criteria.MinPrice != nil {
		t.Errorf("contradicting earlier minimum should be dropped, got %v", *criteria.MinPrice)
	}
}

func TestExtract_compatibleBoundsBothKept(t *testing.T) {
	e := arExtractor(t)
	criteria, _ := e.Extract("فيلا فوق مليون وبحدود 2 مليون")
	if criteria.MinPrice == nil || *criteria.MinPrice != 1_000_000 {
		t.Errorf("min price = %v, want 1000000", criteria.MinPrice)
	}
	if criteria.MaxPrice == nil || *criteria.MaxPrice != 2_000_000 {
		t.Errorf("max price = %v, want 2000000", criteria.MaxPrice)
	}
}

func TestExtract_emptyQuery(t *testing.T) {
	e := arExtractor(t)
	criteria, confidence := e.Extract("   ")
	if !criteria.IsEmpty() {
		t.Errorf("empty query should give empty criteria, got %+v", criteria)
	}
	if confidence != 0 {
		t.Errorf("confidence = %v, want 0", confidence)
	}
}

func TestExtract_unrecognizedQuery(t *testing.T) {
	e := arExtractor(t)
	criteria, confidence := e.Extract("كلام غير مفهوم تماما")
	if !criteria.IsEmpty() {
		t.Errorf("unrecognized query should give empty criteria, got %+v", criteria)
	}
	if confidence != 0 {
		t.Errorf("confidence = %v, want 0", confidence)
	}
}

func TestExtract_deterministic(t *testing.T) {
	e := arExtractor(t)
	query := "فيلا فيها مسبح وحديقة في حي النرجس او الياسمين بالرياض تحت 3 ملايين"
	first, firstConf := e.Extract(query)
	for i := 0; i < 5; i++ {
		next, nextConf := e.Extract(query)
		if !reflect.DeepEqual(first, next) || firstConf != nextConf {
			t.Fatalf("extraction not deterministic: %+v vs %+v", first, next)
		}
	}
}

func TestExtract_confidenceMonotonic(t *testing.T) {
	e := arExtractor(t)
	queries := []string{
		"كلام عام",
		"فيلا",
		"فيلا في الرياض",
		"فيلا مع مسبح في الرياض",
		"فيلا مع مسبح في الرياض تحت 2 مليون",
	}
	prev := -1.0
	for _, q := range queries {
		_, confidence := e.Extract(q)
		if confidence < prev {
			t.Errorf("confidence for %q = %v, below previous %v", q, confidence, prev)
		}
		prev = confidence
	}
}

func TestExtract_english(t *testing.T) {
	e := enExtractor(t)
	criteria, confidence := e.Extract("Luxury home with a swimming pool in Brooklyn under 2 million")
	if criteria.Type == nil || *criteria.Type != "Villa" {
		t.Errorf("type = %v, want Villa", criteria.Type)
	}
	if !reflect.DeepEqual(criteria.Districts, []string{"Brooklyn"}) {
		t.Errorf("districts = %v, want [Brooklyn]", criteria.Districts)
	}
	if !reflect.DeepEqual(criteria.OptionalFeatures, []string{"pool"}) {
		t.Errorf("optional features = %v, want [pool]", criteria.OptionalFeatures)
	}
	if criteria.MaxPrice == nil || *criteria.MaxPrice != 2_000_000 {
		t.Errorf("max price = %v, want 2000000", criteria.MaxPrice)
	}
	if confidence != 1.0 {
		t.Errorf("confidence = %v, want 1.0", confidence)
	}
}

func TestExtract_englishConjoinedFeatures(t *testing.T) {
	e := enExtractor(t)
	criteria, _ := e.Extract("apartment with balcony and garden")
	if !reflect.DeepEqual(criteria.RequiredFeatures, []string{"balcony", "garden"}) {
		t.Errorf("required = %v, want [balcony garden]", criteria.RequiredFeatures)
	}
}

func TestExtract_englishNoMoreThanIsMax(t *testing.T) {
	e := enExtractor(t)
	// "no more than" contains the min marker "more than" but reads as a max.
	criteria, _ := e.Extract("apartment no more than 500 thousand")
	if criteria.MaxPrice == nil || *criteria.MaxPrice != 500_000 {
		t.Errorf("max price = %v, want 500000", criteria.MaxPrice)
	}
	if criteria.MinPrice != nil {
		t.Errorf("min price = %v, want nil", *criteria.MinPrice)
	}
}

func TestExtract_englishCounts(t *testing.T) {
	e := enExtractor(t)
	criteria, _ := e.Extract("3 bedroom apartment with 2 bathrooms in Queens")
	if criteria.Rooms == nil || *criteria.Rooms != 3 {
		t.Errorf("rooms = %v, want 3", criteria.Rooms)
	}
	if criteria.Bathrooms == nil || *criteria.Bathrooms != 2 {
		t.Errorf("bathrooms = %v, want 2", criteria.Bathrooms)
	}
}
