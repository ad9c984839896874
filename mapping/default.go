package mapping

// Sheet names of the contract workbook.
const (
	sheetCadastro   = "CADASTRO DAS OBRAS"
	sheetQuadro     = "QUADRO DE CONCORRENCIA"
	sheetCronograma = "CRONOGRAMA"
	sheetContrato   = "CONTRATO"
)

var defaultEntries = []Entry{
	// Contratante
	{Marker: "RAZÃO SOCIAL SPE", Sheet: sheetCadastro, Cell: "O27"},
	{Marker: "nome_completo_contratante", Sheet: sheetCadastro, Cell: "O28"},
	{Marker: "endereço_completo_contratante", Sheet: sheetCadastro, Cell: "O29"},
	{Marker: "cidade_contratante", Sheet: sheetCadastro, Cell: "O30"},
	{Marker: "estado_contratante", Sheet: sheetCadastro, Cell: "O31"},
	{Marker: "cnpj_contratante", Sheet: sheetCadastro, Cell: "O32"},
	{Marker: "nacionalidade_contratante", Sheet: sheetCadastro, Cell: "O33"},
	{Marker: "profissão_contratante", Sheet: sheetCadastro, Cell: "O34"},
	{Marker: "estado_civil_contratante", Sheet: sheetCadastro, Cell: "O35"},
	{Marker: "rg_contratante", Sheet: sheetCadastro, Cell: "O36"},
	{Marker: "cpf_contratante", Sheet: sheetCadastro, Cell: "O37"},
	{Marker: "telefoneContratante", Sheet: sheetCadastro, Cell: "O38"},
	{Marker: "emailContratante", Sheet: sheetCadastro, Cell: "O39"},
	// Contratada
	{Marker: "RAZÃO SOCIAL", Sheet: sheetQuadro, Cell: "H9"},
	{Marker: "cnpj_contratada", Sheet: sheetQuadro, Cell: "H10"},
	{Marker: "endereço_completo_contratada", Sheet: sheetQuadro, Cell: "H11"},
	{Marker: "cidade_contratada", Sheet: sheetQuadro, Cell: "H12"},
	{Marker: "estado_contratada", Sheet: sheetQuadro, Cell: "H13"},
	{Marker: "nacionalidade_contratada", Sheet: sheetQuadro, Cell: "H14"},
	{Marker: "nome_completo_contratada", Sheet: sheetQuadro, Cell: "H15"},
	{Marker: "estado_civil_contratada", Sheet: sheetQuadro, Cell: "H16"},
	{Marker: "cpf_contratada", Sheet: sheetQuadro, Cell: "H18"},
	{Marker: "rg_contratada", Sheet: sheetQuadro, Cell: "H17"},
	{Marker: "profissão_contratada", Sheet: sheetQuadro, Cell: "H19"},
	{Marker: "telefoneContratada", Sheet: sheetQuadro, Cell: "H21"},
	{Marker: "emailContratada", Sheet: sheetQuadro, Cell: "H22"},
	// Anexos
	{Marker: "data_anexoI", Sheet: sheetQuadro, Cell: "F20"},
	{Marker: "data_anexo", Sheet: sheetQuadro, Cell: "F20"},
	{Marker: "regime_contratacao", Sheet: sheetQuadro, Cell: "H66"},
	// Objeto
	{Marker: "concorrencia", Sheet: sheetQuadro, Cell: "D8"},
	// Local
	{Marker: "local_de_servico", Sheet: sheetQuadro, Cell: "D22"},
	// Preço
	{Marker: "preço_total", Sheet: sheetQuadro, Cell: "H39"},
	// Composição
	{Marker: "maoDeObraPercentual", Sheet: sheetQuadro, Cell: "H46"},
	{Marker: "mao_de_obra", Sheet: sheetQuadro, Cell: "H47"},
	{Marker: "materialPercentual", Sheet: sheetQuadro, Cell: "H48"},
	{Marker: "materiais", Sheet: sheetQuadro, Cell: "H49"},
	{Marker: "equipamentoPercentual", Sheet: sheetQuadro, Cell: "H50"},
	{Marker: "equipamentos", Sheet: sheetQuadro, Cell: "H51"},
	// Prazo
	{Marker: "dateInicio", Sheet: sheetQuadro, Cell: "F20"},
	{Marker: "dateFim", Sheet: sheetCronograma, Cell: "Q9"},
	{Marker: "dateConcluida", Sheet: sheetQuadro, Cell: "H53"},
	// Pagamento
	{Marker: "pagamento", Sheet: sheetQuadro, Cell: "H45"},
	// Obs
	{Marker: "observacao", Sheet: sheetQuadro, Cell: "H65"},
	// Reajuste
	{Marker: "R1", Sheet: sheetContrato, Cell: "V47"},
	{Marker: "R2", Sheet: sheetContrato, Cell: "V48"},
	{Marker: "R3", Sheet: sheetContrato, Cell: "V51"},
	// Retenção
	{Marker: "R4", Sheet: sheetContrato, Cell: "V79"},
	{Marker: "R5", Sheet: sheetContrato, Cell: "V80"},
	{Marker: "numero", Sheet: sheetContrato, Cell: "W81"},
	{Marker: "retencaoMeses", Sheet: sheetContrato, Cell: "W82"},
	// Para contratante
	{Marker: "atencaoContratante", Sheet: sheetContrato, Cell: "M56"},
	{Marker: "contatoContratante", Sheet: sheetContrato, Cell: "M57"},
	{Marker: "endContratante", Sheet: sheetContrato, Cell: "M58"},
	{Marker: "telContratante", Sheet: sheetContrato, Cell: "M59"},
	{Marker: "mailContratante", Sheet: sheetContrato, Cell: "M60"},
	// Para contratada
	{Marker: "atencaoContratada", Sheet: sheetContrato, Cell: "M64"},
	{Marker: "contatoContratada", Sheet: sheetContrato, Cell: "M65"},
	{Marker: "endContratada", Sheet: sheetContrato, Cell: "M66"},
	{Marker: "telContratada", Sheet: sheetContrato, Cell: "M67"},
	{Marker: "mailContratada", Sheet: sheetContrato, Cell: "M68"},
	// Interveniente anuente
	{Marker: "contatoAnuente", Sheet: sheetContrato, Cell: "M73"},
	{Marker: "endAnuente", Sheet: sheetContrato, Cell: "M74"},
	{Marker: "telAnuente", Sheet: sheetContrato, Cell: "M75"},
	{Marker: "mailAnuente", Sheet: sheetContrato, Cell: "M76"},
}

// Default returns the contract marker table.
func Default() Mapping {
	return MustNew(defaultEntries...)
}
