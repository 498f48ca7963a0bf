package model

// Preference is a single namespaced key-value setting.
type Preference struct {
	Namespace string `gorm:"primaryKey"`
	Key       string `gorm:"primaryKey;column:pref_key"`
	Value     string
}
