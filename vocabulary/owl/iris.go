// Package owl holds the IRI constants of the W3C vocabularies the scrubber
// reads and writes, plus the NCI EVS complex-property namespace.
package owl

// Standard namespaces.
const (
	RDFNamespace  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace = "http://www.w3.org/2000/01/rdf-schema#"
	OWLNamespace  = "http://www.w3.org/2002/07/owl#"
	XSDNamespace  = "http://www.w3.org/2001/XMLSchema#"
)

// ComplexPropertiesNamespace is the namespace of the tags embedded in NCI
// Thesaurus XML literals (FULL_SYN, DEFINITION, ...).
const ComplexPropertiesNamespace = "http://ncicb.nci.nih.gov/xml/owl/EVS/ComplexProperties.xsd#"

// ComplexPropertiesPrefix is the prefix conventionally bound to
// ComplexPropertiesNamespace.
const ComplexPropertiesPrefix = "ncicp"

// RDF and RDFS terms.
const (
	RDFType        = RDFNamespace + "type"
	RDFXMLLiteral  = RDFNamespace + "XMLLiteral"
	RDFLangString  = RDFNamespace + "langString"
	RDFSSubClassOf = RDFSNamespace + "subClassOf"
	RDFSClass      = RDFSNamespace + "Class"
	RDFSLabel      = RDFSNamespace + "label"
	RDFSComment    = RDFSNamespace + "comment"
	RDFSDomain     = RDFSNamespace + "domain"
	RDFSRange      = RDFSNamespace + "range"
)

// OWL terms.
const (
	Ontology           = OWLNamespace + "Ontology"
	Class              = OWLNamespace + "Class"
	Thing              = OWLNamespace + "Thing"
	ObjectProperty     = OWLNamespace + "ObjectProperty"
	DatatypeProperty   = OWLNamespace + "DatatypeProperty"
	AnnotationProperty = OWLNamespace + "AnnotationProperty"
	NamedIndividual    = OWLNamespace + "NamedIndividual"
	EquivalentClass    = OWLNamespace + "equivalentClass"
)

// XSD datatypes.
const (
	XSDString = XSDNamespace + "string"
	XSDAnyURI = XSDNamespace + "anyURI"
)

// ThingFragment is the local name of owl:Thing.
const ThingFragment = "Thing"

// DefaultPrefixes returns the namespace prefixes every serialization declares.
func DefaultPrefixes() map[string]string {
	return map[string]string{
		"rdf":  RDFNamespace,
		"rdfs": RDFSNamespace,
		"owl":  OWLNamespace,
		"xsd":  XSDNamespace,
	}
}
