package nutrition

import "encoding/json"

// FoodDetails is the reference provider's full record for one food.
type FoodDetails struct {
	FdcID           int64          `json:"fdcId"`
	Description     string         `json:"description"`
	DataType        string         `json:"dataType"`
	PublicationDate string         `json:"publicationDate,omitempty"`
	BrandOwner      string         `json:"brandOwner,omitempty"`
	Ingredients     string         `json:"ingredients,omitempty"`
	ServingSize     *float64       `json:"servingSize,omitempty"`
	ServingSizeUnit string         `json:"servingSizeUnit,omitempty"`
	FoodNutrients   []FoodNutrient `json:"foodNutrients"`
}

// Identity returns the details' identity fields.
func (d *FoodDetails) Identity() FoodIdentity {
	return FoodIdentity{
		ID:              d.FdcID,
		Name:            d.Description,
		Category:        d.DataType,
		PublicationDate: d.PublicationDate,
	}
}

// FoodNutrient is one nutrient row of a reference record.
//
// Search results use a flat shape (nutrientId, nutrientName, value) while
// the details endpoint nests the nutrient definition and reports "amount";
// both decode into this type.
type FoodNutrient struct {
	NutrientID     int      `json:"nutrientId" yaml:"nutrient_id"`
	NutrientName   string   `json:"nutrientName" yaml:"nutrient_name"`
	NutrientNumber string   `json:"nutrientNumber,omitempty" yaml:"nutrient_number,omitempty"`
	UnitName       string   `json:"unitName,omitempty" yaml:"unit_name,omitempty"`
	Value          *float64 `json:"value,omitempty" yaml:"value,omitempty"`
}

type flatNutrient struct {
	NutrientID     int      `json:"nutrientId"`
	NutrientName   string   `json:"nutrientName"`
	NutrientNumber string   `json:"nutrientNumber"`
	UnitName       string   `json:"unitName"`
	Value          *float64 `json:"value"`
	Amount         *float64 `json:"amount"`
	Nutrient       *struct {
		ID       int    `json:"id"`
		Number   string `json:"number"`
		Name     string `json:"name"`
		UnitName string `json:"unitName"`
	} `json:"nutrient"`
}

// UnmarshalJSON accepts both the flat and the nested nutrient shapes.
func (n *FoodNutrient) UnmarshalJSON(data []byte) error {
	var raw flatNutrient
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*n = FoodNutrient{
		NutrientID:     raw.NutrientID,
		NutrientName:   raw.NutrientName,
		NutrientNumber: raw.NutrientNumber,
		UnitName:       raw.UnitName,
		Value:          raw.Value,
	}
	if raw.Nutrient != nil {
		if n.NutrientID == 0 {
			n.NutrientID = raw.Nutrient.ID
		}
		if n.NutrientName == "" {
			n.NutrientName = raw.Nutrient.Name
		}
		if n.NutrientNumber == "" {
			n.NutrientNumber = raw.Nutrient.Number
		}
		if n.UnitName == "" {
			n.UnitName = raw.Nutrient.UnitName
		}
	}
	if n.Value == nil {
		n.Value = raw.Amount
	}
	return nil
}
