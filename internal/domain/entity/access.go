package entity

// AccessLevel nivel de acceso del usuario del painel.
type AccessLevel string

const (
	LevelSuperAdmin    AccessLevel = "super_admin"
	LevelAdminCentral  AccessLevel = "admin_central"
	LevelGerenteAlmox  AccessLevel = "gerente_almox"
	LevelRespSubAlmox  AccessLevel = "resp_sub_almox"
	LevelOperadorSetor AccessLevel = "operador_setor"
)

// AllLevels los cinco niveles válidos.
var AllLevels = []AccessLevel{LevelSuperAdmin, LevelAdminCentral, LevelGerenteAlmox, LevelRespSubAlmox, LevelOperadorSetor}

// Valid indica si el nivel es uno de los cinco conocidos.
func (l AccessLevel) Valid() bool {
	for _, v := range AllLevels {
		if v == l {
			return true
		}
	}
	return false
}

// AccessContext contexto de acceso entregado al montar el painel (viene en el token).
type AccessContext struct {
	Level    AccessLevel
	SectorID string
	UserID   string
	UserName string
}

// IsOperator operador de setor: solo ve datos de su propio setor.
func (a AccessContext) IsOperator() bool { return a.Level == LevelOperadorSetor }
