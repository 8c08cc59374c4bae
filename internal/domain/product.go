package domain

// ProductID — непрозрачный идентификатор товара. Сервер может отдавать его
// числом, но локально все сравнения выполняются над строковым представлением.
type ProductID string

// Point — координата стеллажа на складской сетке.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Product — локальная копия товара. Источником истины всегда остаётся сервер:
// локальный список лишь кэш, обновляемый ответами мутаций и полной перезагрузкой.
type Product struct {
	ID       ProductID
	Name     string
	Price    float64
	Quantity int
	Location Point
}

// ProductDraft — данные нового товара до присвоения идентификатора сервером.
type ProductDraft struct {
	Name     string
	Price    float64
	Quantity int
	Location Point
}

// ProductUpdate — изменяемые поля товара. Имя и идентификатор после создания
// неизменяемы и на сервер не отправляются.
type ProductUpdate struct {
	NewQuantity int
	NewPrice    float64
	NewLocation Point
}

// ValidateInvariants проверяет базовые инварианты товара и возвращает список замечаний.
func (p *Product) ValidateInvariants() []error {
	var errs []error

	if p.ID == "" {
		errs = append(errs, ErrProductIDRequired)
	}
	errs = append(errs, validateListing(p.Name, p.Price, p.Quantity)...)

	return errs
}

// ValidateInvariants проверяет черновик перед отправкой на сервер.
func (d *ProductDraft) ValidateInvariants() []error {
	return validateListing(d.Name, d.Price, d.Quantity)
}

func validateListing(name string, price float64, quantity int) []error {
	var errs []error
	if name == "" {
		errs = append(errs, ErrProductNameRequired)
	}
	if price < 0 {
		errs = append(errs, ErrPriceNegative)
	}
	if quantity < 0 {
		errs = append(errs, ErrQuantityNegative)
	}
	return errs
}

// MatchesDraft сообщает, совпадает ли товар с черновиком по имени, цене и обеим
// координатам. Этим правилом синхронизатор распознаёт подтверждение ранее
// отправленной оптимистичной записи.
func (p *Product) MatchesDraft(d ProductDraft) bool {
	return p.Name == d.Name &&
		p.Price == d.Price &&
		p.Location.X == d.Location.X &&
		p.Location.Y == d.Location.Y
}
