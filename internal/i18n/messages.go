package i18n

import "golang.org/x/text/language"

var messages = map[language.Tag][]entry{
	language.English: {
		str("app.title", "Coach reports"),
		str("nav.classes", "Classes"),
		str("nav.logout", "Sign out"),

		str("login.title", "Coach sign in"),
		str("login.username", "Username"),
		str("login.password", "Password"),
		str("login.submit", "Sign in"),
		str("login.invalid", "Incorrect username or password"),
		str("login.rate_limited", "Too many attempts, try again in a minute"),

		str("classes.title", "Classes"),
		str("classes.new", "New class"),
		str("classes.empty", "You have no classes yet"),
		str("classes.col.name", "Class"),
		str("classes.col.learners", "Learners"),
		str("classes.reports", "Reports"),
		count("classes.learner_count", "%d learner", "%d learners"),

		str("modal.create_class.title", "Create new class"),
		str("modal.create_class.name", "Class name"),
		str("modal.save", "Save"),
		str("modal.cancel", "Cancel"),

		str("validation.required", "This field is required"),
		str("validation.class_duplicate", "A class with this name already exists"),
		str("validation.class_too_long", "Class name is too long"),

		str("notice.class_created", "Class created"),
		str("notice.class_duplicate", "A class with this name already exists"),
		str("notice.class_create_failed", "The class could not be created"),

		count("report.exercise_count", "%d exercise", "%d exercises"),
		count("report.resource_count", "%d resource", "%d resources"),
		str("report.col.name", "Name"),
		str("report.col.kind", "Type"),
		str("report.col.exercises", "Exercises"),
		str("report.col.resources", "Resources"),
		str("report.col.exercise_progress", "Exercise progress"),
		str("report.col.resource_progress", "Resource progress"),
		str("report.col.last_activity", "Last activity"),
		str("report.col.time_spent", "Time spent"),
		str("report.col.time_spent_minutes", "Time spent (minutes)"),
		str("report.empty", "This topic has no items"),
		str("report.export", "Export spreadsheet"),
		str("report.breadcrumb_root", "Channel"),

		str("learners.col.name", "Learner"),
		str("learners.col.progress", "Progress"),
		str("learners.col.status", "Status"),
		str("learners.completed", "Completed"),
		str("learners.not_completed", "Not completed"),
		str("learners.empty", "This class has no learners"),

		str("progress.percent", "%d%%"),
		str("progress.none", "Not started"),

		str("time.never", "Never"),
		str("time.just_now", "Just now"),
		count("time.minutes_ago", "%d minute ago", "%d minutes ago"),
		count("time.hours_ago", "%d hour ago", "%d hours ago"),
		count("time.days_ago", "%d day ago", "%d days ago"),
		count("time.spent_minutes", "%d minute", "%d minutes"),
		str("time.spent_hours", "%d h %d min"),

		str("kind.topic", "Topic"),
		str("kind.exercise", "Exercise"),
		str("kind.video", "Video"),
		str("kind.audio", "Audio"),
		str("kind.document", "Document"),
		str("kind.html5", "App"),

		str("error.not_found", "Page not found"),
		str("error.internal", "Something went wrong"),
	},
	language.Spanish: {
		str("app.title", "Informes del tutor"),
		str("nav.classes", "Clases"),
		str("nav.logout", "Cerrar sesión"),

		str("login.title", "Acceso de tutores"),
		str("login.username", "Usuario"),
		str("login.password", "Contraseña"),
		str("login.submit", "Entrar"),
		str("login.invalid", "Usuario o contraseña incorrectos"),
		str("login.rate_limited", "Demasiados intentos, vuelve a probar en un minuto"),

		str("classes.title", "Clases"),
		str("classes.new", "Nueva clase"),
		str("classes.empty", "Todavía no tienes clases"),
		str("classes.col.name", "Clase"),
		str("classes.col.learners", "Estudiantes"),
		str("classes.reports", "Informes"),
		count("classes.learner_count", "%d estudiante", "%d estudiantes"),

		str("modal.create_class.title", "Crear nueva clase"),
		str("modal.create_class.name", "Nombre de la clase"),
		str("modal.save", "Guardar"),
		str("modal.cancel", "Cancelar"),

		str("validation.required", "Este campo es obligatorio"),
		str("validation.class_duplicate", "Ya existe una clase con este nombre"),
		str("validation.class_too_long", "El nombre de la clase es demasiado largo"),

		str("notice.class_created", "Clase creada"),
		str("notice.class_duplicate", "Ya existe una clase con este nombre"),
		str("notice.class_create_failed", "No se pudo crear la clase"),

		count("report.exercise_count", "%d ejercicio", "%d ejercicios"),
		count("report.resource_count", "%d recurso", "%d recursos"),
		str("report.col.name", "Nombre"),
		str("report.col.kind", "Tipo"),
		str("report.col.exercises", "Ejercicios"),
		str("report.col.resources", "Recursos"),
		str("report.col.exercise_progress", "Progreso en ejercicios"),
		str("report.col.resource_progress", "Progreso en recursos"),
		str("report.col.last_activity", "Última actividad"),
		str("report.col.time_spent", "Tiempo dedicado"),
		str("report.col.time_spent_minutes", "Tiempo dedicado (minutos)"),
		str("report.empty", "Este tema no tiene elementos"),
		str("report.export", "Exportar hoja de cálculo"),
		str("report.breadcrumb_root", "Canal"),

		str("learners.col.name", "Estudiante"),
		str("learners.col.progress", "Progreso"),
		str("learners.col.status", "Estado"),
		str("learners.completed", "Completado"),
		str("learners.not_completed", "Sin completar"),
		str("learners.empty", "Esta clase no tiene estudiantes"),

		str("progress.percent", "%d%%"),
		str("progress.none", "Sin empezar"),

		str("time.never", "Nunca"),
		str("time.just_now", "Ahora mismo"),
		count("time.minutes_ago", "hace %d minuto", "hace %d minutos"),
		count("time.hours_ago", "hace %d hora", "hace %d horas"),
		count("time.days_ago", "hace %d día", "hace %d días"),
		count("time.spent_minutes", "%d minuto", "%d minutos"),
		str("time.spent_hours", "%d h %d min"),

		str("kind.topic", "Tema"),
		str("kind.exercise", "Ejercicio"),
		str("kind.video", "Vídeo"),
		str("kind.audio", "Audio"),
		str("kind.document", "Documento"),
		str("kind.html5", "Aplicación"),

		str("error.not_found", "Página no encontrada"),
		str("error.internal", "Algo ha fallado"),
	},
}
