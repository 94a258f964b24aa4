package constant

// User-facing degraded responses. All answers leave the service in Spanish;
// the worst failure still produces one of these instead of a raw error.
const (
	MsgRateLimited       = "El servicio de IA está ocupado (429). Intenta de nuevo en unos segundos."
	MsgCircuitOpen       = "El servicio de IA no está disponible temporalmente. Intenta de nuevo en un minuto."
	MsgTimeout           = "La consulta tardó demasiado en procesarse. Intenta de nuevo."
	MsgInsufficientInfo  = "No tengo información suficiente para responder esa pregunta"
	MsgMetadataFallback  = "No pude identificar exactamente qué información necesitas. ¿Podrías ser más específico?"
	MsgGenerationFailure = "Error al generar respuesta"
)

// Chat roles accepted in conversation history.
const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
)

// DefaultSessionKey is the checkpoint key used when a request carries no
// session id. Anonymous sessions share this slot, best-effort only.
const DefaultSessionKey = "default"
