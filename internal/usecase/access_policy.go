package usecase

import "github.com/xavierca1/ligue-crm/internal/entity"

// Scope é o predicado de visibilidade derivado do papel do principal.
// AgentID vazio significa consulta sem restrição (ADMIN/MANAGER).
// Toda query em massa sobre leads/interações passa por um Scope; é a
// única autoridade sobre "quem enxerga o quê".
type Scope struct {
	AgentID string
}

func (s Scope) Unrestricted() bool {
	return s.AgentID == ""
}

// ScopeFor devolve o escopo de leitura/escrita de leads para o papel.
// ADMIN e MANAGER podem estreitar por um filtro assignedAgent explícito;
// para AGENT o filtro explícito é ignorado e vale sempre o próprio ID.
func ScopeFor(role entity.Role, userID, assignedAgentFilter string) Scope {
	if role == entity.RoleAgent {
		return Scope{AgentID: userID}
	}
	return Scope{AgentID: assignedAgentFilter}
}

// CanAccess decide acesso a um lead específico.
func CanAccess(role entity.Role, userID string, lead *entity.Lead) bool {
	if role != entity.RoleAgent {
		return true
	}
	return lead.AssignedAgentID == userID
}

// CanHardDelete: só ADMIN apaga de verdade; o resto arquiva.
func CanHardDelete(role entity.Role) bool {
	return role == entity.RoleAdmin
}

// CanViewOrgWidePerformance: AGENT pedindo performance da operação
// inteira recebe resultado vazio, não erro. Escolha de produto.
func CanViewOrgWidePerformance(role entity.Role) bool {
	return role != entity.RoleAgent
}

// ActivityScopeFor é o escopo do feed de atividades: AGENT só vê as
// interações que ele mesmo registrou.
func ActivityScopeFor(role entity.Role, userID string) Scope {
	if role == entity.RoleAgent {
		return Scope{AgentID: userID}
	}
	return Scope{}
}
