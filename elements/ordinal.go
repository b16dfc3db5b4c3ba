package elements

// OrdinalOrders is the canonical total order for every ordinal column,
// listed worst to best. "NA" is the explicit not-applicable level, e.g.
// a house without a basement.
func OrdinalOrders() map[string][]string {
	return map[string][]string{
		"ExterQual":    {"Po", "Fa", "TA", "Gd", "Ex"},
		"ExterCond":    {"Po", "Fa", "TA", "Gd", "Ex"},
		"BsmtQual":     {"NA", "Po", "Fa", "TA", "Gd", "Ex"},
		"BsmtCond":     {"NA", "Po", "Fa", "TA", "Gd", "Ex"},
		"BsmtExposure": {"NA", "No", "Mn", "Av", "Gd"},
		"BsmtFinType1": {"NA", "Unf", "LwQ", "Rec", "BLQ", "ALQ", "GLQ"},
		"BsmtFinType2": {"NA", "Unf", "LwQ", "Rec", "BLQ", "ALQ", "GLQ"},
		"HeatingQC":    {"Po", "Fa", "TA", "Gd", "Ex"},
		"KitchenQual":  {"Po", "Fa", "TA", "Gd", "Ex"},
		"FireplaceQu":  {"NA", "Po", "Fa", "TA", "Gd", "Ex"},
		"GarageFinish": {"NA", "Unf", "RFn", "Fin"},
		"GarageQual":   {"NA", "Po", "Fa", "TA", "Gd", "Ex"},
		"GarageCond":   {"NA", "Po", "Fa", "TA", "Gd", "Ex"},
		"PoolQC":       {"NA", "Fa", "TA", "Gd", "Ex"},
		"Fence":        {"NA", "MnWw", "GdWo", "MnPrv", "GdPrv"},
		"Functional":   {"Sal", "Sev", "Maj2", "Maj1", "Mod", "Min2", "Min1", "Typ"},
		"PavedDrive":   {"N", "P", "Y"},
		"Street":       {"Grvl", "Pave"},
		"Alley":        {"NA", "Grvl", "Pave"},
		"CentralAir":   {"N", "Y"},
	}
}

// TargetEncodedColumns are the categorical columns that get a smoothed
// target-mean companion column. Neighborhood_BldgType is the derived
// interaction column, not a raw column.
func TargetEncodedColumns() []string {
	return []string{
		"Neighborhood",
		"MSZoning",
		"Exterior1st",
		"Exterior2nd",
		"SaleCondition",
		"BldgType",
		"Neighborhood_BldgType",
	}
}
