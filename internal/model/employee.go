package model

import "time"

// Employee mirrors the `employees` table.  Email is unique.  ManagerID
// is an optional foreign key into `managers`; nil means unassigned.
type Employee struct {
    ID        uint64     // employees.id
    FirstName string     // employees.first_name
    LastName  string     // employees.last_name
    Email     string     // employees.email
    Phone     string     // employees.phone
    Position  string     // employees.position
    ManagerID *uint64    // employees.manager_id (nullable)
    CreatedAt time.Time  // employees.created_at
    UpdatedAt time.Time  // employees.updated_at
}

// Manager mirrors the `managers` table.
type Manager struct {
    ID          uint64    // managers.id
    Name        string    // managers.name
    Designation string    // managers.designation
    Experience  int       // managers.experience (years)
    City        string    // managers.city
    CreatedAt   time.Time // managers.created_at
    UpdatedAt   time.Time // managers.updated_at
}
