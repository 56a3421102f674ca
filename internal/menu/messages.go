package menu

// Canned response texts. The bot speaks Argentine Spanish; every block
// here is pre-authored and tied to a menu state or handler.
const (
	MsgBienvenida = "¡Hola! En Breaders te solucionamos el almuerzo y la cena 🍽️.\n" +
		"¿Estás listo/a para hacer tu pedido o tenés alguna consulta?\n\n" +
		"1️⃣ Ver productos\n" +
		"2️⃣ Hacer un pedido\n" +
		"3️⃣ Consultar estado de pedido\n" +
		"4️⃣ Ver ofertas especiales\n" +
		"5️⃣ Hablar con atención al cliente"

	MsgMenuPrincipal = "Menú Principal:\n\n" +
		"1️⃣ Ver productos\n" +
		"2️⃣ Hacer un pedido\n" +
		"3️⃣ Consultar estado de pedido\n" +
		"4️⃣ Ver ofertas especiales\n" +
		"5️⃣ Hablar con atención al cliente"

	MsgVerProductos = "Estos son nuestros productos disponibles:\n\n" +
		"1️⃣ Milanesas de carne\n" +
		"2️⃣ Milanesas de pollo\n" +
		"3️⃣ Milanesas de cerdo\n" +
		"4️⃣ Milanesas vegetarianas\n\n" +
		"Elegí un número para ver más detalles, o escribí 'volver' para el menú principal."

	MsgHacerPedido = "Para hacer un pedido, primero seleccioná el producto que querés:\n\n" +
		"1️⃣ Milanesas de carne\n" +
		"2️⃣ Milanesas de pollo\n" +
		"3️⃣ Milanesas de cerdo\n" +
		"4️⃣ Milanesas vegetarianas\n\n" +
		"Elegí un número para agregarlo a tu pedido."

	MsgConsultarEstado = "Para consultar el estado de tu pedido, necesito el número de pedido. " +
		"Por favor, enviame el número que recibiste en tu confirmación."

	MsgOfertasEspeciales = "¡Tenemos estas ofertas especiales para vos!\n\n" +
		"🔥 2x1 en milanesas de pollo los martes\n" +
		"🔥 30% de descuento en tu primera compra\n" +
		"🔥 Envío gratis en pedidos mayores a $5000\n\n" +
		"¿Te interesa alguna de estas ofertas?"

	MsgAtencionCliente = "Estás en el área de atención al cliente. " +
		"Por favor, contanos tu consulta o problema y te ayudamos lo antes posible."

	MsgOpcionNoDisponible = "Esa opción no está disponible en este menú. " +
		"Elegí una de las opciones numeradas o escribí 'volver' para ir atrás."

	MsgNoEntiendo = "Lo siento, no entendí tu mensaje. ¿Podrías reformularlo o elegir una opción del menú?\n\n" +
		MsgMenuPrincipal

	MsgError = "Lo siento, ocurrió un error al procesar tu solicitud. " +
		"Por favor, intentá nuevamente más tarde."

	MsgPedidoZona = "¡Buenísimo! ¿A qué zona te lo llevamos? " +
		"Decime tu barrio y confirmo si llegamos."

	MsgZonaDisponible = "¡Llegamos a tu zona! 🎉 El envío demora entre 30 y 45 minutos.\n\n" +
		"Seguí agregando productos a tu pedido:\n\n" + MsgHacerPedido

	MsgZonaNoDisponible = "Uy, todavía no llegamos a esa zona 😔. " +
		"Podés retirar tu pedido por nuestro local de Palermo.\n\n" + MsgHacerPedido
)

// Per-category product detail blocks shown from the products submenu.
const (
	MsgProductosCarne = "🥖 Milanesas de carne\n\n" +
		"Clásicas de nalga, rebozado crocante. Caja x12: $4200.\n" +
		"Elegí '2' en el menú principal para pedirlas, o escribí 'volver'."

	MsgProductosPollo = "🥖 Milanesas de pollo\n\n" +
		"Suprema de pollo, rebozado casero. Caja x12: $3800.\n" +
		"Elegí '2' en el menú principal para pedirlas, o escribí 'volver'."

	MsgProductosCerdo = "🥖 Milanesas de cerdo\n\n" +
		"Carré de cerdo, rebozado con hierbas. Caja x12: $3900.\n" +
		"Elegí '2' en el menú principal para pedirlas, o escribí 'volver'."

	MsgProductosVegetarianas = "🥖 Milanesas vegetarianas\n\n" +
		"Base de soja y calabaza, aptas veggie. Caja x12: $3500.\n" +
		"Elegí '2' en el menú principal para pedirlas, o escribí 'volver'."
)

// MsgEstadoPedidoEnCurso confirms an order-number lookup was started.
const MsgEstadoPedidoEnCurso = "¡Gracias! Estamos consultando el estado del pedido #%s. " +
	"En unos minutos te llega la actualización por este mismo chat."
