package model

// Collection names the directory a kind of entity persists under. The on-disk
// layout is fixed: one subdirectory per collection, one JSON file per entity.
type Collection string

const (
	CollectionPatients       Collection = "patients"
	CollectionDoctors        Collection = "doctors"
	CollectionAppointments   Collection = "appointments"
	CollectionMedicalRecords Collection = "medical-records"
)

// Collections lists every known collection, in creation order.
func Collections() []Collection {
	return []Collection{
		CollectionPatients,
		CollectionDoctors,
		CollectionAppointments,
		CollectionMedicalRecords,
	}
}
