package model

// KVEntry one key of the storage adapter's namespace, table kv_entries
type KVEntry struct {
	Key   string `gorm:"type:varchar(255);primaryKey" json:"key"`
	Value string `gorm:"type:text;not null"           json:"value"`
	BaseModel
}

// TableName table name
func (KVEntry) TableName() string { return "kv_entries" }
