package domain

// Route — путь складского робота для одного заказа: статус заказа на момент
// запроса и упорядоченный список посещённых координат. Маршрут существует
// не раньше самого заказа; запрос маршрута несуществующего заказа — штатная
// ошибка сервера, а не сбой клиента.
type Route struct {
	OrderID          int64
	Status           OrderStatus
	VisitedLocations []Point
}
