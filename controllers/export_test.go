package controllers

// Exported aliases so the external test package can reach unexported helpers.
var (
	HashPassword = hashPassword
	GenerateJWT  = generateJWT
)
