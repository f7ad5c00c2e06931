package entity

// Roles válidos en el token. La administración de usuarios vive fuera de este servicio.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
	RoleVendedor  = "vendedor"
)
