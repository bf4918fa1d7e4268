package models

type LoadStatus string

const (
	LoadIdle    LoadStatus = "idle"
	LoadLoading LoadStatus = "loading"
	LoadLoaded  LoadStatus = "loaded"
	LoadFailed  LoadStatus = "failed"
)

type ModalMode string

const (
	ModalClosed ModalMode = "closed"
	ModalCreate ModalMode = "create"
	ModalEdit   ModalMode = "edit"
)

// FormModal is the create/edit dialog. Fields holds what the form shows;
// in edit mode it is seeded from the record being edited.
type FormModal struct {
	Mode   ModalMode `json:"mode"`
	EditID DishID    `json:"editId,omitempty"`
	Fields DishInput `json:"fields"`
	Saving bool      `json:"saving"`
}

func (m *FormModal) OpenCreate() {
	*m = FormModal{Mode: ModalCreate}
}

func (m *FormModal) OpenEdit(d Dish) {
	*m = FormModal{Mode: ModalEdit, EditID: d.ID, Fields: d.Input()}
}

// Close discards anything typed since the modal opened.
func (m *FormModal) Close() {
	*m = FormModal{Mode: ModalClosed}
}

func (m FormModal) IsOpen() bool {
	return m.Mode == ModalCreate || m.Mode == ModalEdit
}

type ConfirmModal struct {
	Open     bool   `json:"open"`
	TargetID DishID `json:"targetId,omitempty"`
}

func (m *ConfirmModal) Request(id DishID) {
	m.Open = true
	m.TargetID = id
}

func (m *ConfirmModal) Close() {
	*m = ConfirmModal{}
}

// SelectionSet is an insertion-ordered set of dish ids.
type SelectionSet struct {
	ids   []DishID
	index map[DishID]struct{}
}

func NewSelectionSet(ids ...DishID) *SelectionSet {
	s := &SelectionSet{}
	for _, id := range ids {
		if !s.Has(id) {
			s.add(id)
		}
	}
	return s
}

func (s *SelectionSet) add(id DishID) {
	if s.index == nil {
		s.index = make(map[DishID]struct{})
	}
	s.index[id] = struct{}{}
	s.ids = append(s.ids, id)
}

// Toggle adds id when absent and removes it when present. It reports whether
// id is selected afterwards.
func (s *SelectionSet) Toggle(id DishID) bool {
	if s.Has(id) {
		s.Remove(id)
		return false
	}
	s.add(id)
	return true
}

func (s *SelectionSet) Remove(id DishID) {
	if !s.Has(id) {
		return
	}
	delete(s.index, id)
	for i, v := range s.ids {
		if v == id {
			s.ids = append(s.ids[:i:i], s.ids[i+1:]...)
			break
		}
	}
}

func (s *SelectionSet) Has(id DishID) bool {
	_, ok := s.index[id]
	return ok
}

func (s *SelectionSet) Len() int { return len(s.ids) }

func (s *SelectionSet) IDs() []DishID {
	out := make([]DishID, len(s.ids))
	copy(out, s.ids)
	return out
}

func (s *SelectionSet) Clear() {
	s.ids = nil
	s.index = nil
}
