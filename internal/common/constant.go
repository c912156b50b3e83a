package common

// SystemPartyID is the reserved identifier of the system/global party.
// Folders, cards and instructions owned by it are overlaid onto every
// other party's view.
const SystemPartyID = "SYSTEM"

// SystemPartyName is the display name of the seeded system party.
const SystemPartyName = "System Core"

// ArchitectUserID is the identifier of the singleton architect user seeded
// into the system party outside normal registration.
const ArchitectUserID = "architect-master-root"
