package models

import "encoding/json"

// The alias types below shed the custom method sets so the stdlib encoder
// handles the known fields.

var (
	recordKeys       = jsonKeys(Record{})
	refKeys          = jsonKeys(Ref{})
	dateEntryKeys    = jsonKeys(DateEntry{})
	extentKeys       = jsonKeys(Extent{})
	instanceKeys     = jsonKeys(Instance{})
	subContainerKeys = jsonKeys(SubContainer{})
	agentLinkKeys    = jsonKeys(AgentLink{})
	termKeys         = jsonKeys(Term{})
	fileVersionKeys  = jsonKeys(FileVersion{})
	noteKeys         = jsonKeys(Note{})
	subnoteKeys      = jsonKeys(Subnote{})
)

func (r *Record) UnmarshalJSON(data []byte) error {
	type alias Record
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	extra, err := extraFields(data, recordKeys)
	if err != nil {
		return err
	}
	*r = Record(a)
	r.extra = extra
	return nil
}

func (r Record) MarshalJSON() ([]byte, error) {
	type alias Record
	b, err := json.Marshal(alias(r))
	if err != nil {
		return nil, err
	}
	return mergeExtra(b, r.extra)
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	type alias Ref
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	extra, err := extraFields(data, refKeys)
	if err != nil {
		return err
	}
	*r = Ref(a)
	r.extra = extra
	return nil
}

func (r Ref) MarshalJSON() ([]byte, error) {
	type alias Ref
	b, err := json.Marshal(alias(r))
	if err != nil {
		return nil, err
	}
	return mergeExtra(b, r.extra)
}

func (d *DateEntry) UnmarshalJSON(data []byte) error {
	type alias DateEntry
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	extra, err := extraFields(data, dateEntryKeys)
	if err != nil {
		return err
	}
	*d = DateEntry(a)
	d.extra = extra
	return nil
}

func (d DateEntry) MarshalJSON() ([]byte, error) {
	type alias DateEntry
	b, err := json.Marshal(alias(d))
	if err != nil {
		return nil, err
	}
	return mergeExtra(b, d.extra)
}

func (e *Extent) UnmarshalJSON(data []byte) error {
	type alias Extent
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	extra, err := extraFields(data, extentKeys)
	if err != nil {
		return err
	}
	*e = Extent(a)
	e.extra = extra
	return nil
}

func (e Extent) MarshalJSON() ([]byte, error) {
	type alias Extent
	b, err := json.Marshal(alias(e))
	if err != nil {
		return nil, err
	}
	return mergeExtra(b, e.extra)
}

func (i *Instance) UnmarshalJSON(data []byte) error {
	type alias Instance
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	extra, err := extraFields(data, instanceKeys)
	if err != nil {
		return err
	}
	*i = Instance(a)
	i.extra = extra
	return nil
}

func (i Instance) MarshalJSON() ([]byte, error) {
	type alias Instance
	b, err := json.Marshal(alias(i))
	if err != nil {
		return nil, err
	}
	return mergeExtra(b, i.extra)
}

func (s *SubContainer) UnmarshalJSON(data []byte) error {
	type alias SubContainer
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	extra, err := extraFields(data, subContainerKeys)
	if err != nil {
		return err
	}
	*s = SubContainer(a)
	s.extra = extra
	return nil
}

func (s SubContainer) MarshalJSON() ([]byte, error) {
	type alias SubContainer
	b, err := json.Marshal(alias(s))
	if err != nil {
		return nil, err
	}
	return mergeExtra(b, s.extra)
}

func (l *AgentLink) UnmarshalJSON(data []byte) error {
	type alias AgentLink
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	extra, err := extraFields(data, agentLinkKeys)
	if err != nil {
		return err
	}
	*l = AgentLink(a)
	l.extra = extra
	return nil
}

func (l AgentLink) MarshalJSON() ([]byte, error) {
	type alias AgentLink
	b, err := json.Marshal(alias(l))
	if err != nil {
		return nil, err
	}
	return mergeExtra(b, l.extra)
}

func (t *Term) UnmarshalJSON(data []byte) error {
	type alias Term
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	extra, err := extraFields(data, termKeys)
	if err != nil {
		return err
	}
	*t = Term(a)
	t.extra = extra
	return nil
}

func (t Term) MarshalJSON() ([]byte, error) {
	type alias Term
	b, err := json.Marshal(alias(t))
	if err != nil {
		return nil, err
	}
	return mergeExtra(b, t.extra)
}

func (f *FileVersion) UnmarshalJSON(data []byte) error {
	type alias FileVersion
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	extra, err := extraFields(data, fileVersionKeys)
	if err != nil {
		return err
	}
	*f = FileVersion(a)
	f.extra = extra
	return nil
}

func (f FileVersion) MarshalJSON() ([]byte, error) {
	type alias FileVersion
	b, err := json.Marshal(alias(f))
	if err != nil {
		return nil, err
	}
	return mergeExtra(b, f.extra)
}

func (n *Note) UnmarshalJSON(data []byte) error {
	type alias Note
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	extra, err := extraFields(data, noteKeys)
	if err != nil {
		return err
	}
	*n = Note(a)
	n.extra = extra
	return nil
}

func (n Note) MarshalJSON() ([]byte, error) {
	type alias Note
	b, err := json.Marshal(alias(n))
	if err != nil {
		return nil, err
	}
	return mergeExtra(b, n.extra)
}

func (s *Subnote) UnmarshalJSON(data []byte) error {
	type alias Subnote
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	extra, err := extraFields(data, subnoteKeys)
	if err != nil {
		return err
	}
	*s = Subnote(a)
	s.extra = extra
	return nil
}

func (s Subnote) MarshalJSON() ([]byte, error) {
	type alias Subnote
	b, err := json.Marshal(alias(s))
	if err != nil {
		return nil, err
	}
	return mergeExtra(b, s.extra)
}
