package locale

// Canonical keys are the English strings themselves.
const (
	KeyAppName             = "Secure Password Share"
	KeyTooShort            = "The password must be at least 4 characters."
	KeyTooLong             = "The password cannot be more than 128 characters."
	KeyEmptyPassword       = "Please enter a password before generating the link."
	KeyGenerateFailed      = "Error generating password. Try again."
	KeyLinkFailed          = "Error generating link. Try again."
	KeyUnavailable         = "Password Unavailable"
	KeyDay                 = "day"
	KeyDays                = "days"
	KeyView                = "view"
	KeyViews               = "views"
	KeyOr                  = "or"
	KeyAvailableUntil      = "This password will be available until"
	KeyOrFor               = "or for"
	KeyMoreView            = "more view."
	KeyMoreViews           = "more views."
	KeyCreatedOn           = "Created on:"
	KeyAvailableUntilFirst = "This password will be available until the first occurs:"
)

// Disclosures are the reassurance sentences rotated by the carousel, in order.
var Disclosures = []string{
	"All passwords are encrypted before storage and are only available to those with the secret link.",
	"Once expired, encrypted passwords are deleted from the database.",
	"The system ensures maximum security through end-to-end encryption.",
	"Your data is protected with the highest digital security standards.",
	"Passwords are generated using secure and random algorithms.",
	"No personal information is stored on our servers.",
}

var catalog = map[Locale]map[string]string{
	PortugueseBR: {
		KeyAppName: "Compartilhamento Seguro de Senhas",

		"Password Generator":                   "Gerador de Senhas",
		"Enter the password you want to share": "Digite a senha que vai compartilhar",
		"Characters":                           "Caracteres",
		"Need help generating a secure password?":                    "Precisa de uma ajuda para gerar uma senha segura?",
		`Click the "Generate password" button or change the options`: `Clique no botão "Gerar senha" ou altere as opções`,
		"Generate password":     "Gerar senha",
		"Generating...":         "Gerando...",
		"Generate link":         "Gerar link",
		"Generating link...":    "Gerando link...",
		"Options":               "Opções",
		"Hide options":          "Ocultar opções",
		"Size:":                 "Tamanho:",
		"Include symbols:":      "Incluir símbolos:",
		"Include numbers:":      "Incluir números:",
		"How many days should it be available?":         "Por quantos dias deve ficar disponível?",
		KeyDay:                                          "dia",
		KeyDays:                                         "dias",
		"What is the maximum number of views possible?": "Qual o máximo de visualizações possíveis?",
		KeyView:                                         "visualização",
		KeyViews:                                        "visualizações",
		KeyAvailableUntilFirst:                          "Esta senha ficará disponível ao que ocorrer primeiro:",
		KeyOr:                                           "ou",

		"Use this link to share the password:": "Use este link para compartilhar a senha:",
		"Copy":                                 "Copiar",
		"Copied":                               "Copiado",
		"Link copied to clipboard!":            "Link copiado para a área de transferência!",
		"Create new password":                  "Criar nova senha",

		"This is the password that was shared with you":              "Esta é a senha que foi compartilhada com você",
		"Click on the password to view it or on the button to copy": "Clique na senha para visualizá-la ou no botão para copiar",
		"Loading...":         "Carregando...",
		KeyAvailableUntil:    "Esta senha estará disponível até",
		KeyOrFor:             "ou por mais",
		KeyMoreView:          "visualização.",
		KeyMoreViews:         "visualizações.",
		KeyCreatedOn:         "Criada em:",
		"If you want to revoke access to this password, click": "Caso queira revogar o acesso a esta senha, clique em",
		"Revoke":       "Revogar",
		KeyUnavailable: "Senha Indisponivel",

		Disclosures[0]: "Todas as senhas são criptografadas antes do armazenamento e estão disponíveis apenas para aqueles com o link secreto.",
		Disclosures[1]: "Uma vez expiradas, as senhas criptografadas são excluídas do banco de dados.",
		Disclosures[2]: "O sistema garante máxima segurança através de criptografia de ponta a ponta.",
		Disclosures[3]: "Seus dados são protegidos com os mais altos padrões de segurança digital.",
		Disclosures[4]: "As senhas são geradas usando algoritmos seguros e aleatórios.",
		Disclosures[5]: "Nenhuma informação pessoal é armazenada em nossos servidores.",

		KeyTooShort:       "A senha deve ter pelo menos 4 caracteres.",
		KeyTooLong:        "A senha não pode ter mais de 128 caracteres.",
		KeyEmptyPassword:  "Por favor, digite uma senha antes de gerar o link.",
		KeyGenerateFailed: "Erro ao gerar senha. Tente novamente.",
		KeyLinkFailed:     "Erro ao gerar link. Tente novamente.",
	},
	Spanish: {
		KeyAppName: "Compartir Contraseñas Seguras",

		"Password Generator":                   "Generador de Contraseñas",
		"Enter the password you want to share": "Ingresa la contraseña que quieres compartir",
		"Characters":                           "Caracteres",
		"Need help generating a secure password?":                    "¿Necesitas ayuda para generar una contraseña segura?",
		`Click the "Generate password" button or change the options`: `Haz clic en el botón "Generar contraseña" o cambia las opciones`,
		"Generate password":     "Generar contraseña",
		"Generating...":         "Generando...",
		"Generate link":         "Generar enlace",
		"Generating link...":    "Generando enlace...",
		"Options":               "Opciones",
		"Hide options":          "Ocultar opciones",
		"Size:":                 "Tamaño:",
		"Include symbols:":      "Incluir símbolos:",
		"Include numbers:":      "Incluir números:",
		"How many days should it be available?":         "¿Por cuántos días debe estar disponible?",
		KeyDay:                                          "día",
		KeyDays:                                         "días",
		"What is the maximum number of views possible?": "¿Cuál es el número máximo de visualizaciones posibles?",
		KeyView:                                         "visualización",
		KeyViews:                                        "visualizaciones",
		KeyAvailableUntilFirst:                          "Esta contraseña estará disponible hasta que ocurra lo primero:",
		KeyOr:                                           "o",

		"Use this link to share the password:": "Usa este enlace para compartir la contraseña:",
		"Copy":                                 "Copiar",
		"Copied":                               "Copiado",
		"Link copied to clipboard!":            "¡Enlace copiado al portapapeles!",
		"Create new password":                  "Crear nueva contraseña",

		"This is the password that was shared with you":              "Esta es la contraseña que fue compartida contigo",
		"Click on the password to view it or on the button to copy": "Haz clic en la contraseña para verla o en el botón para copiar",
		"Loading...":         "Cargando...",
		KeyAvailableUntil:    "Esta contraseña estará disponible hasta",
		KeyOrFor:             "o por",
		KeyMoreView:          "visualización más.",
		KeyMoreViews:         "visualizaciones más.",
		KeyCreatedOn:         "Creada el:",
		"If you want to revoke access to this password, click": "Si quieres revocar el acceso a esta contraseña, haz clic en",
		"Revoke":       "Revocar",
		KeyUnavailable: "Contraseña Indisponible",

		Disclosures[0]: "Todas las contraseñas están encriptadas antes del almacenamiento y solo están disponibles para aquellos con el enlace secreto.",
		Disclosures[1]: "Una vez expiradas, las contraseñas encriptadas se eliminan de la base de datos.",
		Disclosures[2]: "El sistema garantiza máxima seguridad a través de encriptación de extremo a extremo.",
		Disclosures[3]: "Tus datos están protegidos con los más altos estándares de seguridad digital.",
		Disclosures[4]: "Las contraseñas se generan usando algoritmos seguros y aleatorios.",
		Disclosures[5]: "No se almacena información personal en nuestros servidores.",

		KeyTooShort:       "La contraseña debe tener al menos 4 caracteres.",
		KeyTooLong:        "La contraseña no puede tener más de 128 caracteres.",
		KeyEmptyPassword:  "Por favor ingresa una contraseña antes de generar el enlace.",
		KeyGenerateFailed: "Error al generar contraseña. Intenta de nuevo.",
		KeyLinkFailed:     "Error al generar enlace. Intenta de nuevo.",
	},
}
